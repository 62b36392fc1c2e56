package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntPerez69367/yuri/internal/config"
	"github.com/AntPerez69367/yuri/internal/core/event"
	coresys "github.com/AntPerez69367/yuri/internal/core/system"
	"github.com/AntPerez69367/yuri/internal/data"
	"github.com/AntPerez69367/yuri/internal/handler"
	gonet "github.com/AntPerez69367/yuri/internal/net"
	"github.com/AntPerez69367/yuri/internal/net/packet"
	"github.com/AntPerez69367/yuri/internal/persist"
	"github.com/AntPerez69367/yuri/internal/scripting"
	"github.com/AntPerez69367/yuri/internal/system"
	"github.com/AntPerez69367/yuri/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("YURI_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("server", cfg.Server.Name),
		zap.Int("id", cfg.Server.ID),
	)

	// Database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	accountRepo := persist.NewAccountRepo(db)
	charRepo := persist.NewCharacterRepo(db)

	// World state and maps
	worldState := world.NewState(log)
	worldState.SetVisionRange(cfg.World.VisionRange)

	mapTable, err := data.LoadMapList(cfg.World.MapList)
	if err != nil {
		return fmt.Errorf("load map list: %w", err)
	}
	for _, mi := range mapTable.All() {
		worldState.LoadMap(world.MapID(mi.MapID), mi.Name, mi.Width, mi.Height)
	}
	log.Info("maps loaded", zap.Int("count", mapTable.Len()))

	bus := event.NewBus()

	// Lua scripting
	luaEngine := scripting.NewEngine(log)
	defer luaEngine.Close()
	luaEngine.RegisterWorldAPI(worldState)
	if err := luaEngine.LoadScripts(cfg.World.ScriptsDir); err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}

	// Packet handlers
	pktReg := packet.NewRegistry(log)
	deps := &handler.Deps{
		AccountRepo: accountRepo,
		CharRepo:    charRepo,
		Config:      cfg,
		Log:         log,
		World:       worldState,
		Bus:         bus,
		Scripting:   luaEngine,
		Maps:        mapTable,
	}
	handler.RegisterAll(pktReg, deps)

	// Network
	netServer := gonet.NewServer(gonet.ServerConfig{
		Addr:         cfg.Network.BindAddress,
		InQueueSize:  cfg.Network.InQueueSize,
		OutQueueSize: cfg.Network.OutQueueSize,
		PacketsPerS:  cfg.Network.PacketsPerSecond,
		WriteTimeout: cfg.Network.WriteTimeout,
	}, log)

	srvCtx, srvCancel := context.WithCancel(context.Background())
	defer srvCancel()
	if err := netServer.Listen(srvCtx); err != nil {
		return fmt.Errorf("net server: %w", err)
	}

	// Systems
	runner := coresys.NewRunner()
	inputSys := system.NewInputSystem(netServer, pktReg, deps, cfg.Network.MaxPacketsPerTick, log)
	persistSys := system.NewPersistenceSystem(worldState, charRepo, cfg.World.SaveInterval, log)
	runner.Register(inputSys)
	runner.Register(system.NewRespawnSystem(worldState, bus, cfg.World.RespawnTicks, log))
	runner.Register(persistSys)
	runner.Register(system.NewCleanupSystem(worldState))

	// Scripts spawn the initial world population.
	if err := luaEngine.CallEvent("onServerStart"); err != nil {
		log.Warn("onServerStart script failed", zap.Error(err))
	}

	// Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()

	log.Info("game loop started",
		zap.Duration("tick", cfg.World.TickRate),
		zap.String("addr", cfg.Network.BindAddress),
	)

	for {
		select {
		case <-ticker.C:
			// Events emitted last tick are delivered before this
			// tick's systems run.
			bus.Dispatch()
			runner.Tick(cfg.World.TickRate)
			inputSys.FlushAll()
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			persistSys.SaveAll()
			srvCancel()
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
