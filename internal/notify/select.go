package notify

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/bitrise-io/go-utils/v2/log"
	"golang.org/x/term"
)

// Backend names accepted in configuration
const (
	BackendAuto       = "auto"
	BackendDBus       = "dbus"
	BackendGrowl      = "growlnotify"
	BackendNotifySend = "notify-send"
	BackendOsascript  = "osascript"
	BackendNone       = "none"
)

// autoOrder is the probe order used for BackendAuto
var autoOrder = []string{BackendDBus, BackendGrowl, BackendNotifySend, BackendOsascript}

// ErrUnknownBackend is returned for a backend name that is not recognised
var ErrUnknownBackend = errors.New("unknown notifier backend")

// Backends lists every concrete backend name, in probe order, followed by "none"
func Backends() []string {
	return append(append([]string{}, autoOrder...), BackendNone)
}

// ValidBackend checks if the given string names a backend or "auto"
func ValidBackend(s string) bool {
	if s == BackendAuto || s == BackendNone {
		return true
	}
	for _, b := range autoOrder {
		if s == b {
			return true
		}
	}
	return false
}

// Environment describes the host capabilities consulted during selection.
// Tests substitute the functions; HostEnvironment probes the real host.
type Environment struct {
	GOOS          string
	LookPath      func(file string) (string, error)
	Getenv        func(key string) string
	IsInteractive func() bool
	DBusAvailable func() bool
}

// HostEnvironment returns an Environment backed by the running process
func HostEnvironment() Environment {
	return Environment{
		GOOS:          runtime.GOOS,
		LookPath:      exec.LookPath,
		Getenv:        os.Getenv,
		IsInteractive: isInteractive,
		DBusAvailable: func() bool { return dbusServiceAvailable(DefaultTimeout) },
	}
}

// Available reports whether backend can deliver notifications in env
func Available(backend string, env Environment) bool {
	switch backend {
	case BackendDBus:
		if env.GOOS == "windows" || env.GOOS == "darwin" {
			return false
		}
		return env.DBusAvailable != nil && env.DBusAvailable()
	case BackendGrowl:
		return toolAvailable(env, growlProgram)
	case BackendNotifySend:
		return toolAvailable(env, notifySendProgram) && hasDisplay(env)
	case BackendOsascript:
		return env.GOOS == "darwin" && toolAvailable(env, osascriptProgram)
	case BackendNone:
		return true
	default:
		return false
	}
}

// Ignored returns the Notification fields the named backend drops
func Ignored(backend string) []string {
	if backend == BackendOsascript {
		return osascriptIgnored
	}
	return nil
}

// New constructs the named backend without probing for availability
func New(backend string, opts Options, logger log.Logger) (Notifier, error) {
	switch backend {
	case BackendDBus:
		return NewDBusNotifier(opts, logger), nil
	case BackendGrowl:
		return NewGrowlNotifier(opts, logger), nil
	case BackendNotifySend:
		return NewNotifySendNotifier(opts, logger), nil
	case BackendOsascript:
		return NewOsascriptNotifier(opts, logger), nil
	case BackendNone:
		return NullNotifier{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Select resolves the notifier for this process. The choice is made once;
// anything that rules notifications out yields a NullNotifier.
func Select(opts Options, env Environment, logger log.Logger) Notifier {
	logger = loggerOrDefault(logger)

	name, reason := resolveBackend(opts, env)
	if reason != "" {
		logger.Debugf("[notify] notifications off: %s", reason)
	}

	n, err := New(name, opts, logger)
	if err != nil {
		logger.Warnf("[notify] %v", err)
		return NullNotifier{}
	}
	logger.Debugf("[notify] using %s backend", n.Name())
	return n
}

// resolveBackend picks a backend name. A non-empty reason explains why the
// no-op backend was chosen.
func resolveBackend(opts Options, env Environment) (string, string) {
	if !opts.Enabled {
		return BackendNone, "disabled in configuration"
	}
	if opts.DisableInCI && isCI(env) {
		return BackendNone, "CI environment detected"
	}
	if opts.InteractiveOnly && (env.IsInteractive == nil || !env.IsInteractive()) {
		return BackendNone, "no terminal attached"
	}

	switch opts.Backend {
	case "", BackendAuto:
		for _, b := range autoOrder {
			if Available(b, env) {
				return b, ""
			}
		}
		return BackendNone, "no notification mechanism found"
	case BackendNone:
		return BackendNone, "backend set to none"
	default:
		if !ValidBackend(opts.Backend) {
			return opts.Backend, ""
		}
		if !Available(opts.Backend, env) {
			return BackendNone, fmt.Sprintf("%s is not available", opts.Backend)
		}
		return opts.Backend, ""
	}
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(env Environment, name string) bool {
	if env.LookPath == nil {
		return false
	}
	_, err := env.LookPath(name)
	return err == nil
}

// hasDisplay checks for an X11 or Wayland display
func hasDisplay(env Environment) bool {
	if env.Getenv == nil {
		return false
	}
	return env.Getenv("DISPLAY") != "" || env.Getenv("WAYLAND_DISPLAY") != ""
}

// ciVars are environment variables set by common CI providers
var ciVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_URL",
	"BUILDKITE",
	"DRONE",
	"TEAMCITY_VERSION",
	"TF_BUILD",            // Azure DevOps
	"BITBUCKET_PIPELINES", // Bitbucket
	"CODEBUILD_BUILD_ID",  // AWS CodeBuild
	"BITRISE_IO",
}

// isCI checks for common CI environment variables
func isCI(env Environment) bool {
	if env.Getenv == nil {
		return false
	}
	for _, v := range ciVars {
		if env.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive checks stdout, then stderr, then stdin for a terminal
func isInteractive() bool {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return true
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return true
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func loggerOrDefault(logger log.Logger) log.Logger {
	if logger == nil {
		return log.NewLogger()
	}
	return logger
}
