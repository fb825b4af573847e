package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type (
	// Config describes a machine: its registers, operations,
	// controller and the values to start with.
	Config struct {
		Registers  []string       `toml:"registers" yaml:"registers"`
		Operations []string       `toml:"operations" yaml:"operations"`
		Controller string         `toml:"controller" yaml:"controller"`
		Source     string         `toml:"source" yaml:"source"`
		Init       map[string]any `toml:"init" yaml:"init"`
		Print      []string       `toml:"print" yaml:"print"`

		// Dir is where Controller is looked up if it's relative.
		Dir string `toml:"-" yaml:"-"`
	}
)

var (
	ErrUnknownFormat     = errors.New("unknown config format")
	ErrNoController      = errors.New("no controller")
	ErrBothControllers   = errors.New("both controller and source set")
	ErrBadRegister       = errors.New("bad register name")
	ErrDuplicateRegister = errors.New("duplicate register")
	ErrUnknownRegister   = errors.New("unknown register")
	ErrUnknownOperation  = errors.New("unknown operation")
)

var reserved = map[string]bool{"pc": true, "flag": true}

// IsConfigFile reports whether name looks like a machine file.
func IsConfigFile(name string) bool {
	_, ok := format(name)
	return ok
}

// Load reads a machine file. Format is chosen by extension.
func Load(name string) (*Config, error) {
	f, ok := format(name)
	if !ok {
		return nil, errors.Wrap(ErrUnknownFormat, "%v", filepath.Ext(name))
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	c, err := Parse(f, data)
	if err != nil {
		return nil, errors.Wrap(err, "%v", name)
	}

	c.Dir = filepath.Dir(name)

	return c, nil
}

// Parse decodes a machine description in toml or yaml.
func Parse(format string, data []byte) (c *Config, err error) {
	c = &Config{}

	switch format {
	case "toml":
		_, err = toml.Decode(string(data), c)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, c)
	default:
		return nil, errors.Wrap(ErrUnknownFormat, "%v", format)
	}

	if err != nil {
		return nil, errors.Wrap(err, "decode %v", format)
	}

	for k, v := range c.Init {
		c.Init[k] = normalize(v)
	}

	return c, nil
}

// Validate reports every problem found, not only the first one.
// known is consulted for operation names if not nil.
func (c *Config) Validate(known func(op string) bool) error {
	var errs *multierror.Error

	switch {
	case c.Controller == "" && c.Source == "":
		errs = multierror.Append(errs, ErrNoController)
	case c.Controller != "" && c.Source != "":
		errs = multierror.Append(errs, ErrBothControllers)
	}

	regs := make(map[string]bool, len(c.Registers))

	for _, r := range c.Registers {
		switch {
		case r == "" || strings.ContainsAny(r, " \t\n()'\";"):
			errs = multierror.Append(errs, errors.Wrap(ErrBadRegister, "%q", r))
		case reserved[r]:
			errs = multierror.Append(errs, errors.Wrap(ErrBadRegister, "%v is reserved", r))
		case regs[r]:
			errs = multierror.Append(errs, errors.Wrap(ErrDuplicateRegister, "%v", r))
		}

		regs[r] = true
	}

	if known != nil {
		for _, op := range c.Operations {
			if !known(op) {
				errs = multierror.Append(errs, errors.Wrap(ErrUnknownOperation, "%v", op))
			}
		}
	}

	// registers may be inferred from the controller
	if len(c.Registers) != 0 {
		for _, name := range sortedKeys(c.Init) {
			if !regs[name] {
				errs = multierror.Append(errs, errors.Wrap(ErrUnknownRegister, "init %v", name))
			}
		}

		for _, name := range c.Print {
			if !regs[name] && !reserved[name] {
				errs = multierror.Append(errs, errors.Wrap(ErrUnknownRegister, "print %v", name))
			}
		}
	}

	return errs.ErrorOrNil()
}

// ControllerText returns controller source and its file name.
func (c *Config) ControllerText() (name string, text []byte, err error) {
	if c.Source != "" {
		return "", []byte(c.Source), nil
	}

	if c.Controller == "" {
		return "", nil, ErrNoController
	}

	name = c.Controller
	if !filepath.IsAbs(name) {
		name = filepath.Join(c.Dir, name)
	}

	text, err = os.ReadFile(name)
	if err != nil {
		return name, nil, errors.Wrap(err, "read controller")
	}

	return name, text, nil
}

func format(name string) (string, bool) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml", ".yaml", ".yml":
		return ext[1:], true
	}

	return "", false
}
