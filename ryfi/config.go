package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	CLI/config surface, per §6's CLI table and §9's
 *		"SUPPLEMENTED FEATURES" UDP monitor flags.
 *
 * Description:	Mirrors the teacher's config.go file-plus-flags split,
 *		generalized off of AX.25/APRS-specific options onto RyFi's
 *		much smaller surface: pflag supplies the command line,
 *		an optional YAML file (gopkg.in/yaml.v3) supplies the same
 *		fields for a saved configuration, and flags win when both
 *		are given.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds every value named in §6's CLI table plus the
// supplemented UDP monitor flags.
type Config struct {
	TunName string `yaml:"tun"`

	RXDevice string `yaml:"rxdev"`
	TXDevice string `yaml:"txdev"`

	RXFreqHz float64 `yaml:"rxfreq"`
	TXFreqHz float64 `yaml:"txfreq"`

	BaudRate float64 `yaml:"baudrate"`

	List    bool `yaml:"-"`
	Drivers bool `yaml:"-"`

	UDPDump bool   `yaml:"udpdump"`
	UDPHost string `yaml:"udphost"`
	UDPPort int    `yaml:"udpport"`

	Announce bool   `yaml:"announce"`
	LogDir   string `yaml:"logdir"`

	RigSpec     string `yaml:"rig"`
	PTTGPIOSpec string `yaml:"pttgpio"`

	ConfigFile string `yaml:"-"`
}

// DefaultConfig matches §6's CLI table defaults.
func DefaultConfig() Config {
	return Config{
		TunName:  "ryfi0",
		RXFreqHz: 435e6,
		TXFreqHz: 2315e6,
		BaudRate: 720e3,
		UDPHost:  "127.0.0.1",
		UDPPort:  7355,
	}
}

// ParseFlags parses args (normally os.Args[1:]) into a Config, layering
// flag values over any --config YAML file given. Flags always win over
// the file, and the file's absence without --config being given is not
// an error.
func ParseFlags(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("ryfi", pflag.ContinueOnError)

	tun := fs.StringP("tun", "d", cfg.TunName, "TUN interface name")
	rxdev := fs.StringP("rxdev", "i", "", "driver:serial for RX SDR")
	txdev := fs.StringP("txdev", "o", "", "driver:serial for TX SDR")
	rxfreq := fs.Float64P("rxfreq", "r", cfg.RXFreqHz, "RX carrier in Hz")
	txfreq := fs.Float64P("txfreq", "t", cfg.TXFreqHz, "TX carrier in Hz")
	baudrate := fs.Float64P("baudrate", "b", cfg.BaudRate, "Symbol rate")
	list := fs.BoolP("list", "l", false, "Enumerate devices and exit (code 0)")
	drivers := fs.Bool("drivers", false, "Enumerate drivers and exit (code 0)")
	udpdump := fs.BoolP("udpdump", "u", false, "Export raw soft samples over UDP for monitoring")
	udphost := fs.StringP("udphost", "a", cfg.UDPHost, "Destination host for --udpdump")
	udpport := fs.IntP("udpport", "p", cfg.UDPPort, "Destination port for --udpdump")
	announce := fs.Bool("announce", false, "Advertise this link's monitor port over mDNS/DNS-SD")
	logDir := fs.String("logdir", "", "Directory for daily-rotating log files; disabled if empty")
	rig := fs.String("rig", "", "Register a CAT-controlled rig as model:port[:baud] (see rigctl --list)")
	pttGPIO := fs.String("ptt-gpio", "", "Key PTT on a GPIO line for the link's lifetime, as chip:line[:invert]")
	configFile := fs.String("config", "", "Optional YAML config file; CLI flags override its values")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configFile != "" {
		fileCfg, err := loadConfigFile(*configFile)
		if err != nil {
			return Config{}, err
		}

		cfg = mergeConfig(cfg, fileCfg)
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "tun":
			cfg.TunName = *tun
		case "rxdev":
			cfg.RXDevice = *rxdev
		case "txdev":
			cfg.TXDevice = *txdev
		case "rxfreq":
			cfg.RXFreqHz = *rxfreq
		case "txfreq":
			cfg.TXFreqHz = *txfreq
		case "baudrate":
			cfg.BaudRate = *baudrate
		case "udpdump":
			cfg.UDPDump = *udpdump
		case "udphost":
			cfg.UDPHost = *udphost
		case "udpport":
			cfg.UDPPort = *udpport
		case "announce":
			cfg.Announce = *announce
		case "logdir":
			cfg.LogDir = *logDir
		case "rig":
			cfg.RigSpec = *rig
		case "ptt-gpio":
			cfg.PTTGPIOSpec = *pttGPIO
		}
	})

	cfg.List = *list
	cfg.Drivers = *drivers
	cfg.ConfigFile = *configFile

	return cfg, nil
}

// loadConfigFile reads a YAML config file into a Config, leaving fields
// it doesn't mention at their zero value so mergeConfig can tell "unset"
// from "explicitly zero".
func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// mergeConfig layers non-zero fields from file on top of base.
func mergeConfig(base, file Config) Config {
	if file.TunName != "" {
		base.TunName = file.TunName
	}

	if file.RXDevice != "" {
		base.RXDevice = file.RXDevice
	}

	if file.TXDevice != "" {
		base.TXDevice = file.TXDevice
	}

	if file.RXFreqHz != 0 {
		base.RXFreqHz = file.RXFreqHz
	}

	if file.TXFreqHz != 0 {
		base.TXFreqHz = file.TXFreqHz
	}

	if file.BaudRate != 0 {
		base.BaudRate = file.BaudRate
	}

	if file.UDPHost != "" {
		base.UDPHost = file.UDPHost
	}

	if file.UDPPort != 0 {
		base.UDPPort = file.UDPPort
	}

	base.UDPDump = base.UDPDump || file.UDPDump
	base.Announce = base.Announce || file.Announce

	if file.LogDir != "" {
		base.LogDir = file.LogDir
	}

	if file.RigSpec != "" {
		base.RigSpec = file.RigSpec
	}

	if file.PTTGPIOSpec != "" {
		base.PTTGPIOSpec = file.PTTGPIOSpec
	}

	return base
}
