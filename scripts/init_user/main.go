package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/reelhouse/internal/config"
	"github.com/reelhouse/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	role := flag.String("role", db.RoleAdmin, "account role: admin or editor")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	// 初始化数据库
	cfg := config.Load()
	gdb, err := db.Init(cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	var existing db.User
	if err := gdb.Where("username = ?", *username).First(&existing).Error; err == nil {
		fmt.Printf("用户 %s 已存在，无需初始化\n", *username)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	user := db.User{
		Username: *username,
		Password: string(hashedPassword),
		Role:     *role,
	}
	if err := gdb.Create(&user).Error; err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Printf("用户创建成功: %s (%s)\n", user.Username, user.Role)
}
