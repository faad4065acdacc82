package cmd

import (
	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/service/hub"
	"github.com/ethrahere/curatoor/service/session"
	"github.com/ethrahere/curatoor/service/signer"
	"github.com/ethrahere/curatoor/service/signerapi"
	userservice "github.com/ethrahere/curatoor/service/user"
	signerstore "github.com/ethrahere/curatoor/store/signer"
	"github.com/ethrahere/curatoor/store/user"

	"github.com/fox-one/pkg/store/db"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

// ---------------store-----------------------------------------

func provideUserStore(db *db.DB) core.UserStore {
	return user.Cache(user.New(db), cfg.Cache.Users)
}

func provideSignerStore(db *db.DB) core.SignerStore {
	return signerstore.New(db)
}

// ------------------service------------------------------------

func provideHubService() core.HubService {
	return hub.New(cfg.Hub)
}

func provideUserService(users core.UserStore) core.UserService {
	return userservice.New(users)
}

func provideSignerService(users core.UserStore, signers core.SignerStore) core.SignerService {
	return signer.New(users, signers, provideHubService(), signer.Config{
		DeepLinkBase: cfg.Signer.DeepLinkBase,
		Timeout:      cfg.Signer.ConfirmTimeout(),
		Interval:     cfg.Signer.ConfirmPollInterval(),
	})
}

// provideSignerAPI remote server when endpoint is set, in-process service otherwise
func provideSignerAPI(endpoint string) (core.SignerAPI, func()) {
	if endpoint != "" {
		// leave room for the server side confirmation budget
		timeout := signer.MaxTimeout + cfg.Hub.RequestTimeout()
		return signerapi.New(endpoint, timeout), func() {}
	}

	database := provideDatabase()
	users := provideUserStore(database)
	return provideSignerService(users, provideSignerStore(database)), func() {
		database.Close()
	}
}

func provideSession(signers core.SignerAPI) core.Session {
	return session.New(signers, cfg.Cache.Status)
}
