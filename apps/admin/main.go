package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/akademi/apps/shared"
	"github.com/trezcool/akademi/core"
	appfs "github.com/trezcool/akademi/fs"
	emailsvc "github.com/trezcool/akademi/services/email"
	logsvc "github.com/trezcool/akademi/services/logger"
	"github.com/trezcool/akademi/storage/database"
	kvstore "github.com/trezcool/akademi/storage/kv"
)

func main() {
	conf := core.NewConfig()
	ctx := context.Background()

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	b := shared.Backends{Mailer: emailsvc.NewConsoleService(conf, logger)}

	// set up DB
	var db *sql.DB
	if !conf.Database.InMemory() {
		xdb, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer func() { _ = xdb.Close() }()
		db, b.DB = xdb.DB, xdb
	}
	if conf.Redis.Address != "" {
		redis, err := kvstore.OpenRedis(ctx, conf.Redis)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up redis: %v", err), err)
		}
		defer func() { _ = redis.Close() }()
		b.KV = redis
	}

	svcs, err := shared.NewServices(ctx, conf, b)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	// start CLI
	cli := commandLine{
		db:   db,
		svcs: svcs,
		conf: conf,
		in:   os.Stdin,
		out:  os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err))
		}
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}
