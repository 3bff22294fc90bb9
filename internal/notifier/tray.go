package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/curiosity/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when the tray companion cannot be reached
var ErrTrayNotRunning = errors.New("curiosity-tray is not running")

// TrayPlatform shows notifications and drives windows through the desktop
// tray companion. The tray is located on every call, so a restarted tray is
// picked up without restarting the caller.
type TrayPlatform struct {
	client  *http.Client
	locate  func() (string, string, error)
	baseURL func(port string) string
}

func NewTrayPlatform() *TrayPlatform {
	return &TrayPlatform{
		client:  &http.Client{},
		locate:  locateTray,
		baseURL: func(port string) string { return "http://127.0.0.1:" + port },
	}
}

func (t *TrayPlatform) Show(ctx context.Context, n Notification) error {
	return t.call(ctx, http.MethodPost, "/notifications", n, nil)
}

func (t *TrayPlatform) Close(ctx context.Context, n Notification) error {
	return t.call(ctx, http.MethodPost, "/notifications/close", n, nil)
}

func (t *TrayPlatform) MatchAll(ctx context.Context, opts MatchOptions) ([]Window, error) {
	var windows []Window
	if err := t.call(ctx, http.MethodPost, "/windows/match", opts, &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

func (t *TrayPlatform) Focus(ctx context.Context, w Window) error {
	return t.call(ctx, http.MethodPost, "/windows/focus", w, nil)
}

func (t *TrayPlatform) OpenWindow(ctx context.Context, url string) error {
	return t.call(ctx, http.MethodPost, "/windows/open", map[string]string{"url": url}, nil)
}

func (t *TrayPlatform) call(ctx context.Context, method, path string, in, out any) error {
	port, secret, err := t.locate()
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL(port)+path, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, secret)

	res, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("tray request %s failed: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("tray request %s failed with status %d: %s", path, res.StatusCode, strings.TrimSpace(string(body)))
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("invalid tray response for %s: %w", path, err)
		}
	}
	return nil
}

func locateTray() (string, string, error) {
	trayConfigDir, err := GetTrayAppConfigDir()
	if err != nil {
		return "", "", err
	}
	return findAndValidateTrayProcess(filepath.Join(trayConfigDir, constants.NotifierLockfileName))
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// Check for settings.json to see if a custom lockfile dir is set
	settingsPath := filepath.Join(trayConfigDir, "settings.json")
	if data, err := os.ReadFile(settingsPath); err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return trayConfigDir, nil
}

// findAndValidateTrayProcess reads port|pid|secret from the lockfile and
// checks that pid belongs to a running tray process.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}

	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}

	return port, secret, nil
}
