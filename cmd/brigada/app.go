package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cuemby/brigada/pkg/activities"
	"github.com/cuemby/brigada/pkg/attendance"
	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/config"
	"github.com/cuemby/brigada/pkg/events"
	"github.com/cuemby/brigada/pkg/router"
	"github.com/cuemby/brigada/pkg/session"
	"github.com/cuemby/brigada/pkg/storage"
	"github.com/cuemby/brigada/pkg/users"
)

var errNotLoggedIn = errors.New("not logged in (run: brigada login)")

// app holds every component of one CLI run
type app struct {
	cfg    *config.Config
	kv     storage.KV
	api    *client.Client
	broker *events.Broker
	sub    events.Subscriber
	done   chan struct{}

	session     *session.Manager
	router      *router.Router
	activities  *activities.Store
	attendance  *attendance.Store
	users       *users.UserStore
	invitations *users.InvitationStore
}

func newApp(cfg *config.Config, verbose bool) (*app, error) {
	kv, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	api, err := client.NewClient(client.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		UserAgent: "brigada-cli/" + Version,
	})
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	broker := events.NewBroker()
	broker.Start()

	mgr := session.NewManager(api, kv, broker)
	api.SetTokenSource(mgr)
	r := router.New(router.DefaultRoutes(), mgr, broker)
	mgr.SetNavigator(r)

	a := &app{
		cfg:         cfg,
		kv:          kv,
		api:         api,
		broker:      broker,
		session:     mgr,
		router:      r,
		activities:  activities.NewStore(api, broker),
		attendance:  attendance.NewStore(api, broker),
		users:       users.NewUserStore(api, broker),
		invitations: users.NewInvitationStore(api, broker),
	}

	if verbose {
		a.sub = broker.Subscribe()
		a.done = make(chan struct{})
		go a.printEvents()
	}
	return a, nil
}

func (a *app) printEvents() {
	defer close(a.done)
	for ev := range a.sub {
		fmt.Fprintf(os.Stderr, "[%s] %s %s\n", ev.Timestamp.Format("15:04:05"), ev.Type, ev.Message)
	}
}

// requireSession reconciles the persisted session and fails when nobody
// is signed in
func (a *app) requireSession(ctx context.Context) error {
	if !a.session.Initialize(ctx) {
		return errNotLoggedIn
	}
	return nil
}

// Close stops the broker and releases the session store
func (a *app) Close() error {
	if a.sub != nil {
		a.broker.Unsubscribe(a.sub)
		<-a.done
	}
	a.broker.Stop()
	_ = a.api.Close()
	return a.kv.Close()
}
