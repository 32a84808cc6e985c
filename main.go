package main

import (
	"time"

	"github.com/cppla/webblog/api"
	"github.com/cppla/webblog/config"
	"github.com/cppla/webblog/routes"
	"github.com/cppla/webblog/state"
	"github.com/cppla/webblog/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	idle := time.Duration(cfg.SessionIdleHours) * time.Hour
	var store state.LocalStore = state.NewMemoryStore()
	if rc := utils.GetRedis(); rc != nil {
		// keep local storage a little longer than the browser entry
		store = state.NewRedisStore(rc, cfg.StorePrefix, 30*24*time.Hour)
		utils.Sugar.Infof("local storage on redis %s:%d", cfg.RedisHost, cfg.RedisPort)
	}

	client := api.New(cfg.APIBaseURL, time.Duration(cfg.APITimeoutSec)*time.Second,
		api.WithUserAgent(cfg.APIUserAgent),
		api.WithLogger(utils.Named("api")),
	)
	reg := state.NewRegistry(store, client, idle, utils.Named("state"))

	sweeper, err := reg.StartSweeper(cfg.SessionSweepSpec)
	if err != nil {
		utils.Sugar.Fatalf("invalid session sweep spec %q: %v", cfg.SessionSweepSpec, err)
	}

	r := routes.SetupRouter(reg)

	utils.Sugar.Infof("Starting gateway on port %s for API %s (graceful)", cfg.AppPort, cfg.APIBaseURL)
	if err := utils.GraceServer(":"+cfg.AppPort, r, utils.OnShutdown(func() {
		<-sweeper.Stop().Done()
	})); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
