package main

import (
	"context"

	"github.com/trezcool/akademi/apps"
	"github.com/trezcool/akademi/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.db == nil {
		return apps.NewArgumentError("migrate needs the postgres engine")
	}
	return gooseRunFunc(ctx, cli.db, args[0], args[1:]...)
}
