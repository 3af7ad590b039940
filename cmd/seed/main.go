// 数据初始化工具
// 用法：seed -admin 创建管理员；seed -demo 写入演示数据
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	authdomain "github.com/wyfcoding/ecommerce/internal/auth/domain"
	authmysql "github.com/wyfcoding/ecommerce/internal/auth/infrastructure/persistence/mysql"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/pkg/config"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		configPath    = flag.String("config", "configs/server/config.toml", "配置文件路径")
		createAdmin   = flag.Bool("admin", false, "创建管理员账号")
		adminEmail    = flag.String("admin-email", "admin@example.com", "管理员邮箱")
		adminPassword = flag.String("admin-password", "", "管理员密码")
		demo          = flag.Bool("demo", false, "写入演示分类与商品")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{Level: cfg.Logger.Level, Format: "text", Output: "stdout"}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	database, err := db.Init(db.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&authmysql.UserModel{},
		&catalogmysql.CategoryModel{},
		&catalogmysql.ProductModel{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database", "error", err)
	}

	if *createAdmin {
		if *adminPassword == "" {
			logger.Fatal(ctx, "admin-password is required with -admin")
		}
		if err := seedAdmin(ctx, database, *adminEmail, *adminPassword); err != nil {
			logger.Fatal(ctx, "Failed to create admin", "error", err)
		}
	}

	if *demo {
		if err := seedDemo(ctx, database); err != nil {
			logger.Fatal(ctx, "Failed to seed demo data", "error", err)
		}
	}

	if !*createAdmin && !*demo {
		flag.Usage()
	}
}

// seedAdmin 创建管理员账号，已存在时跳过
func seedAdmin(ctx context.Context, database *db.DB, email, password string) error {
	repo := authmysql.NewUserRepository(database.DB)

	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Info(ctx, "Admin already exists", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := authdomain.NewUser(email, string(hash), authdomain.RoleAdmin)
	if err := repo.Save(ctx, admin); err != nil {
		return err
	}
	logger.Info(ctx, "Admin created", "email", email, "user_id", admin.ID)
	return nil
}

// seedDemo 写入演示账号、分类与商品
func seedDemo(ctx context.Context, database *db.DB) error {
	users := authmysql.NewUserRepository(database.DB)
	categories := catalogmysql.NewCategoryRepository(database.DB)
	products := catalogmysql.NewProductRepository(database.DB)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seller, err := users.GetByEmail(ctx, "seller@example.com")
	if err != nil {
		return err
	}
	if seller == nil {
		seller = authdomain.NewUser("seller@example.com", string(hash), authdomain.RoleSeller)
		if err := users.Save(ctx, seller); err != nil {
			return err
		}
	}
	buyer, err := users.GetByEmail(ctx, "buyer@example.com")
	if err != nil {
		return err
	}
	if buyer == nil {
		buyer = authdomain.NewUser("buyer@example.com", string(hash), authdomain.RoleBuyer)
		if err := users.Save(ctx, buyer); err != nil {
			return err
		}
	}

	electronics := catalogdomain.NewCategory("Electronics", nil)
	if err := categories.Save(ctx, electronics); err != nil {
		return err
	}
	books := catalogdomain.NewCategory("Books", nil)
	if err := categories.Save(ctx, books); err != nil {
		return err
	}

	demoProducts := []*catalogdomain.Product{
		catalogdomain.NewProduct("Wireless Mouse", "2.4G wireless mouse", decimal.NewFromFloat(19.99), "", 100, electronics.ID, seller.ID),
		catalogdomain.NewProduct("Mechanical Keyboard", "87-key mechanical keyboard", decimal.NewFromFloat(89.90), "", 50, electronics.ID, seller.ID),
		catalogdomain.NewProduct("The Go Programming Language", "Donovan & Kernighan", decimal.NewFromFloat(39.50), "", 30, books.ID, seller.ID),
	}
	for _, p := range demoProducts {
		if err := products.Save(ctx, p); err != nil {
			return err
		}
	}

	logger.Info(ctx, "Demo data seeded",
		"seller", seller.Email, "buyer", buyer.Email, "products", len(demoProducts))
	return nil
}
