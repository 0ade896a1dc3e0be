// Package testutil builds in-memory service graphs for API and CLI tests.
package testutil

import (
	"context"
	"log"
	"testing"

	"github.com/trezcool/akademi/apps/shared"
	"github.com/trezcool/akademi/core"
	appfs "github.com/trezcool/akademi/fs"
	certsvc "github.com/trezcool/akademi/services/certificate"
	emailsvc "github.com/trezcool/akademi/services/email"
	kvstore "github.com/trezcool/akademi/storage/kv"
)

// Env is a service graph over in-memory storage, with a console email mock.
type Env struct {
	Conf     *core.Config
	Services *shared.Services
	Mailer   *emailsvc.ConsoleServiceMock
	KV       *kvstore.MemoryStore
}

// NewEnv returns an empty Env. Only the Publisher and the Certificates of backends are kept.
func NewEnv(t *testing.T, backends ...shared.Backends) Env {
	t.Helper()
	conf := core.NewTestConfig()
	core.ParseEmailTemplates(appfs.FS, conf, Logger{})

	env := Env{Conf: conf, Mailer: emailsvc.NewConsoleServiceMock(conf), KV: kvstore.NewMemoryStore()}
	b := shared.Backends{KV: env.KV, Mailer: env.Mailer}
	if len(backends) > 0 {
		b.Publisher, b.Certificates = backends[0].Publisher, backends[0].Certificates
	}
	if b.Certificates == nil {
		renderer, err := certsvc.NewRenderer()
		if err != nil {
			t.Fatalf("certsvc.NewRenderer() failed: %v", err)
		}
		b.Certificates = renderer
	}

	svcs, err := shared.NewServices(context.Background(), conf, b)
	if err != nil {
		t.Fatalf("shared.NewServices() failed: %v", err)
	}
	env.Services = svcs
	return env
}

// Logger only prints errors.
type Logger struct{}

func (Logger) Debug(string, ...interface{})          {}
func (Logger) Info(string, ...interface{})           {}
func (Logger) Warn(string, ...interface{})           {}
func (Logger) Error(msg string, args ...interface{}) { log.Println(append([]interface{}{msg}, args...)...) }
func (Logger) Fatal(msg string, args ...interface{}) { log.Fatalln(append([]interface{}{msg}, args...)...) }
