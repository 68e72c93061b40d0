package gamesdk

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/factory"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
)

// Options contains configuration options for creating a Discord instance.
type Options struct {
	// ClientID is the application id. Zero falls back to the backend
	// configuration (GAMESDK_CLIENT_ID or the config file).
	ClientID ClientID

	// CreateFlags control whether a running Discord client is required.
	// Nil falls back to the backend configuration (GAMESDK_CREATE_FLAGS or
	// the config file).
	CreateFlags *CreateFlags

	// LogLevel is the most verbose native log level forwarded to logrus.
	// Zero falls back to the backend configuration.
	LogLevel LogLevel

	// Events selects the event tables installed at creation
	Events interfaces.EventSet

	// Backend overrides the backend chosen by the factory
	Backend interfaces.IBackend

	// ConfigFile is an optional YAML backend configuration, used when
	// Backend is nil
	ConfigFile string

	// Registry options, mostly useful in tests
	RegistryOptions []bridge.Option
}

// NewOptions creates a new Options instance with default values.
func NewOptions() *Options {
	return &Options{
		Events: interfaces.AllEvents(),
	}
}

// Discord owns one native core. Methods must be called from a single
// goroutine, the one that pumps RunCallbacks. Completion closures and event
// handlers run inside RunCallbacks, with one exception: Close completes the
// closures still pending at that point with ErrCancelled before it returns.
type Discord struct {
	mu       sync.Mutex
	core     interfaces.ICore
	registry *bridge.Registry
	events   bridge.Token
	clientID ClientID
	closed   bool

	logger *logrus.Entry

	handlersMu sync.RWMutex
	handlers   eventHandlers
}

// New creates a Discord instance with default options for the given
// application.
func New(clientID ClientID) (*Discord, error) {
	options := NewOptions()
	options.ClientID = clientID
	return NewWithOptions(options)
}

// NewWithOptions creates a Discord instance from options.
func NewWithOptions(options *Options) (*Discord, error) {
	if options == nil {
		options = NewOptions()
	}

	backend, config, err := resolveBackend(options)
	if err != nil {
		return nil, err
	}

	clientID := options.ClientID
	if clientID == 0 {
		clientID = ClientID(config.ClientID)
	}
	logLevel := options.LogLevel
	if logLevel == 0 {
		logLevel = LogLevel(config.LogLevel)
	}
	flags := CreateFlags(config.CreateFlags)
	if options.CreateFlags != nil {
		flags = *options.CreateFlags
	}

	logger := logrus.WithFields(logrus.Fields{
		"client_id":   int64(clientID),
		"instance_id": uuid.NewString(),
	})

	d := &Discord{
		clientID: clientID,
		logger:   logger,
	}
	d.registry = bridge.NewRegistry(append([]bridge.Option{bridge.WithLogger(logger)}, options.RegistryOptions...)...)

	d.events, err = d.registry.Events(d.dispatchEvent)
	if err != nil {
		return nil, fmt.Errorf("register event sink: %w", err)
	}

	core, err := backend.Create(interfaces.DiscordVersion, &interfaces.CreateParams{
		ClientID:  int64(clientID),
		Flags:     uint64(flags),
		EventData: uintptr(d.events),
		Events:    options.Events,
	})
	if err != nil {
		d.registry.Close()
		logger.WithFields(logrus.Fields{
			"function": "NewWithOptions",
			"error":    err.Error(),
		}).Error("Failed to create native core")
		return nil, fmt.Errorf("create core: %w", err)
	}
	d.core = core

	core.SetLogHook(int32(logLevel), uintptr(d.events))

	// Managers start delivering events once they have been requested.
	core.UserManager()
	core.RelationshipManager()
	core.LobbyManager()
	core.OverlayManager()
	core.StoreManager()
	core.AchievementManager()

	logger.WithFields(logrus.Fields{
		"function":   "NewWithOptions",
		"flags":      uint64(flags),
		"log_level":  logLevel.String(),
		"simulation": backend.IsSimulation(),
	}).Info("Discord instance created")

	return d, nil
}

func resolveBackend(options *Options) (interfaces.IBackend, *interfaces.BackendConfig, error) {
	var f *factory.BackendFactory
	if options.ConfigFile != "" {
		var err error
		f, err = factory.NewBackendFactoryFromFile(options.ConfigFile)
		if err != nil {
			return nil, nil, err
		}
	} else {
		f = factory.NewBackendFactory()
	}
	config := f.GetCurrentConfig()
	if options.Backend != nil {
		return options.Backend, config, nil
	}
	return f.CreateBackendWithConfig(config), config, nil
}

// ClientID returns the application id the instance was created with.
func (d *Discord) ClientID() ClientID {
	return d.clientID
}

// RunCallbacks delivers pending completions and events. It must be called
// regularly, typically once per frame. An error matching ErrNotRunning
// means the Discord client went away and the instance should be closed.
func (d *Discord) RunCallbacks() error {
	core, err := d.nativeCore()
	if err != nil {
		return err
	}
	if err := resultError("run callbacks", core.RunCallbacks()); err != nil {
		if status.KindOf(err) == status.KindNotRunning {
			d.logger.WithFields(logrus.Fields{
				"function": "RunCallbacks",
			}).Warn("Discord client is not running")
		}
		return err
	}
	return nil
}

// Close destroys the native core. Completions still pending run with an
// error matching ErrCancelled before Close returns. Close is idempotent.
func (d *Discord) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	core := d.core
	d.core = nil
	d.mu.Unlock()

	core.Destroy()
	d.registry.Close()

	d.logger.WithFields(logrus.Fields{
		"function": "Close",
	}).Info("Discord instance closed")
	return nil
}

func (d *Discord) nativeCore() (interfaces.ICore, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	return d.core, nil
}

// submitResult registers cb and hands its token to call. The token is only
// created once every synchronous step before submission has succeeded.
func (d *Discord) submitResult(op string, cb func(error), call func(data uintptr)) error {
	if cb == nil {
		cb = func(error) {}
	}
	tok, err := d.registry.OnceResult(func(err error) {
		if err != nil {
			err = &OpError{Op: op, Err: err}
		}
		cb(err)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	d.logger.WithFields(logrus.Fields{
		"function": op,
		"token":    tok.String(),
	}).Debug("Submitting native call")
	call(uintptr(tok))
	return nil
}

// submitValue is submitResult for completions carrying a payload. convert
// runs only on success, while the payload pointer is valid.
func submitValue[T any](d *Discord, op string, convert func(uintptr) T, cb func(T, error), call func(data uintptr)) error {
	if cb == nil {
		cb = func(T, error) {}
	}
	tok, err := bridge.OnceValue(d.registry, convert, func(v T, err error) {
		if err != nil {
			err = &OpError{Op: op, Err: err}
		}
		cb(v, err)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	d.logger.WithFields(logrus.Fields{
		"function": op,
		"token":    tok.String(),
	}).Debug("Submitting native call")
	call(uintptr(tok))
	return nil
}
