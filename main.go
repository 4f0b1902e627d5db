package main

import (
	"context"
	"embed"
	"fmt"
	"path/filepath"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"snapledger/internal/database"
	"snapledger/internal/events"
	"snapledger/internal/receipt"
	"snapledger/internal/services"
	"snapledger/internal/utils"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := utils.LoadEnv(); err != nil {
		fmt.Println("Error loading .env:", err)
	}

	app := NewApp()

	db, err := database.Init(database.Config{
		LogLevel: logger.Info,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	dataDir := receipt.GetDefaultDataDir()
	if err := utils.EnsureDir(filepath.Join(dataDir, "imgs")); err != nil {
		fmt.Println("Error creating data directory:", err)
		return
	}
	dataStore, err := receipt.NewStore(filepath.Join(dataDir, "receipts.csv"), filepath.Join(dataDir, "imgs"))
	if err != nil {
		fmt.Println("Error opening receipt log:", err)
		return
	}
	exampleDir := receipt.GetDefaultExampleDir()
	exampleStore, err := receipt.NewStore(filepath.Join(exampleDir, "examples.csv"), filepath.Join(exampleDir, "imgs"))
	if err != nil {
		fmt.Println("Error opening example log:", err)
		return
	}

	// Create each service
	dbService := services.NewDbServices(db)
	keyringService := services.NewKeyringService()
	chatService := services.NewChatService(keyringService, dbService.Models)
	receiptService := services.NewReceiptService(keyringService, dbService.Presets, dbService.Models, dataStore, receipt.NewPipeline(exampleStore))

	app.AppSettings = dbService.AppSettings

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "SnapLedger",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "SnapLedger",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			events.EnableRuntimeEmitter()

			if err := dbService.StartDbServices(ctx); err != nil {
				fmt.Println("Error starting database services:", err)
			}
			if err := chatService.Startup(ctx); err != nil {
				fmt.Println("Error starting chat service:", err)
			}
			if err := receiptService.Startup(ctx); err != nil {
				fmt.Println("Error starting receipt service:", err)
			}
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			dbService.AppSettings,
			dbService.Presets,
			dbService.Models,
			keyringService,
			chatService,
			receiptService,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
