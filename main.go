package main

import (
	"dsa_tutor_web/internal/app"
	"dsa_tutor_web/internal/config"
	"dsa_tutor_web/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	checkOnly := flag.Bool("check-config", false, "只校验配置，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *checkOnly {
		log.Printf("配置有效，后端地址 %s", cfg.Backend.BaseURL)
		return
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
