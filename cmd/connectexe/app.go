package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/connectexe/connectexe-client/api"
	"github.com/connectexe/connectexe-client/cookies"
	"github.com/connectexe/connectexe-client/internal/config"
	cxlog "github.com/connectexe/connectexe-client/internal/log"
	"github.com/connectexe/connectexe-client/session"
	"github.com/connectexe/connectexe-client/storage"
	"github.com/connectexe/connectexe-client/storage/redisstore"
	"github.com/connectexe/connectexe-client/token"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

type globalOptions struct {
	configDir string
	quiet     bool
}

func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	fs := pflag.NewFlagSet("connectexe", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.StringVarP(&opts.configDir, "config", "c", ".", "directory holding config.yaml")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the banner")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

// app is everything a command needs: the session manager over the configured
// persistent tier, and the API client sharing its token store and cookie jar.
type app struct {
	cfg       config.Config
	out       io.Writer
	navigator *cliNavigator
	manager   *session.Manager
	client    *api.Client
	redis     *redis.Client
}

func newApp(opts globalOptions) (*app, error) {
	cfg, err := config.Load(opts.configDir)
	if err != nil {
		return nil, err
	}
	cxlog.New(cfg.GetEnv())

	a := &app{
		cfg:       cfg,
		out:       os.Stdout,
		navigator: newCLINavigator(os.Stdout),
	}

	local, err := a.persistentTier()
	if err != nil {
		return nil, err
	}
	store := token.NewStore(local, storage.NewMemoryTier())

	jar, err := cookies.New(cfg.GetAPIBaseURL())
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.wire(store, jar); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// wire builds the API client and the session manager over one token store and
// cookie jar. A 401 from the backend reaches session subscribers through the
// manager's broadcaster.
func (a *app) wire(store *token.Store, jar *cookies.Jar) error {
	var err error
	a.client, err = api.New(a.cfg.GetAPIBaseURL(), store,
		api.WithJar(jar),
		api.WithNavigator(a.navigator),
		api.WithTimeout(a.cfg.GetHTTPTimeout()),
		api.WithEnv(a.cfg.GetEnv()),
		api.WithUnauthorizedHook(func() {
			if a.manager != nil {
				a.manager.Broadcaster().NotifyChanged()
			}
		}),
	)
	if err != nil {
		return err
	}

	a.manager = session.NewManager(store, jar,
		session.WithRemote(a.client),
		session.WithNavigator(a.navigator),
		session.WithReload(a.cfg.GetForceReload(), a.cfg.GetReloadDelay()),
		session.WithLegacySources(a.cfg.GetLegacyIdentitySources()),
	)
	a.manager.Subscribe(func() {
		log.Debug().Msg("Auth state changed")
	})
	return nil
}

func (a *app) persistentTier() (storage.Tier, error) {
	switch a.cfg.GetStoreKind() {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := redisstore.NewClient(ctx, a.cfg.GetRedisAddr(), a.cfg.GetRedisPassword(), a.cfg.GetRedisDB())
		if err != nil {
			return nil, err
		}
		a.redis = client
		return redisstore.New(client, a.cfg.GetAppName()), nil
	case "file":
		fs := afero.NewOsFs()
		if err := fs.MkdirAll(a.cfg.GetDataFolder(), 0o700); err != nil {
			return nil, fmt.Errorf("create data folder: %w", err)
		}
		var opts []storage.FileTierOption
		if key := a.cfg.GetStoreKey(); key != "" {
			opts = append(opts, storage.WithPassphrase(key))
		}
		return storage.NewFileTier(fs, a.cfg.GetStoreFile(), opts...), nil
	default:
		return nil, fmt.Errorf("unknown store %q", a.cfg.GetStoreKind())
	}
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Err(err).Msg("Failed to close redis client")
		}
	}
}
