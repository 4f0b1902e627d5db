package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"snapledger/internal/services"
)

// App struct
type App struct {
	ctx         context.Context
	AppSettings services.AppSettingsService
	dbClose     func() error
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// SelectImageFile opens a native file picker restricted to the image types
// the composer and scanner accept.
func (a *App) SelectImageFile() (string, error) {
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Image",
		Filters: []runtime.FileFilter{
			{DisplayName: "Images (*.jpg, *.png)", Pattern: "*.jpg;*.jpeg;*.png"},
		},
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// ReadImageFile loads a picked file so the frontend can hand its bytes to
// the attach endpoints without a second round trip.
func (a *App) ReadImageFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to read image %s: %v", path, err))
		return nil, err
	}
	return data, nil
}
