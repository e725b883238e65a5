package main

import (
	"github.com/GenVas/yatube/config"
	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/routes"
	"github.com/GenVas/yatube/storage/gormdb"
	"github.com/GenVas/yatube/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.PageView{})

	store := gormdb.New(db)
	r := routes.SetupRouter(store)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
