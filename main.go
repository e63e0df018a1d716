// @title HanziLearn 后端 API
// @version 1.0
// @description 汉字学习平台的后端服务器：生字本、测验与学习统计。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"hanzi_learn_backend/internal/app"
	"hanzi_learn_backend/internal/config"
	"hanzi_learn_backend/pkg/logger"
	"log"
)

func main() {
	// 命令行参数
	dataDir := flag.String("data-dir", "", "覆盖配置文件中的数据目录")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer logger.Log.Sync()

	application.Run()
}
