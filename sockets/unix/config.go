package unix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	vDir  = "socket.dir"
	vName = "socket.name"

	DEFAULT_DIR  = "/tmp/.xrdp"
	NAME_PATTERN = "xrdp_chansrv_audio_out_socket_%d"
)

func init() {
	viper.BindEnv(vDir, "XRDP_SOCKET_PATH")
	viper.SetDefault(vDir, "")
	viper.BindEnv(vName, "XRDP_PULSE_SINK_SOCKET")
	viper.SetDefault(vName, "")
}

type Configurer interface {
	Address() string
}

// Socket location, resolved from the socket.dir and socket.name keys
type Config struct{}

// Socket directory, defaults to /tmp/.xrdp
func (c Config) Dir() string {
	if dir := viper.GetString(vDir); dir != "" {
		return dir
	}
	return DEFAULT_DIR
}

// Socket name, defaults to a name derived from the X display number
func (c Config) Name() string {
	if name := viper.GetString(vName); name != "" {
		return name
	}
	return DefaultName(os.Getenv("DISPLAY"))
}

// Full socket path
func (c Config) Address() string {
	return filepath.Join(c.Dir(), c.Name())
}

func NewConfig() Config {
	return Config{}
}

// A fixed address, handy for tests and explicit flags
type Address string

func (a Address) Address() string {
	return string(a)
}

// Default socket name for an X display string
func DefaultName(display string) string {
	return fmt.Sprintf(NAME_PATTERN, DisplayNumber(display))
}

// Parses the display number out of a "host:display.screen" string,
// returning 0 when there is none
func DisplayNumber(display string) int {
	_, rest, found := strings.Cut(display, ":")
	if !found {
		return 0
	}
	rest, _, _ = strings.Cut(rest, ".")
	n := 0
	for _, r := range rest {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
