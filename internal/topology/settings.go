package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration matches every *ConfigurationError
var ErrConfiguration = errors.New("invalid topology configuration")

// TopologyRandom is the only supported topology: links between random pairs
const TopologyRandom = "random"

// DefaultSeed seeds the pair generator when none is given
const DefaultSeed uint64 = 42

// Settings controls the size of a generated topology.
// Zero Elements and Links are derived by Resolve.
type Settings struct {
	Nodes    int    `validate:"min=2"`
	Elements int    `validate:"min=2,ltefield=Nodes"`
	Links    int    `validate:"min=1"`
	Topology string `validate:"oneof=random"`
	Seed     uint64
}

// ConfigurationError lists every rule a Settings value breaks
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(e.Problems, "; "))
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Resolve fills unset values: elements default to the node count, links to
// the size of a complete graph over the elements, and the topology to random.
func (s Settings) Resolve() Settings {
	if s.Elements == 0 {
		s.Elements = s.Nodes
	}
	if s.Links == 0 && s.Elements >= 2 {
		s.Links = s.Elements * (s.Elements - 1) / 2
	}
	if s.Topology == "" {
		s.Topology = TopologyRandom
	}
	return s
}

// Validate checks the settings as given; call Resolve first to derive defaults
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigurationError{Problems: []string{err.Error()}}
	}

	cerr := &ConfigurationError{}
	for _, fe := range verrs {
		cerr.Problems = append(cerr.Problems, describe(fe, s))
	}
	return cerr
}

func describe(fe validator.FieldError, s Settings) string {
	switch fe.StructField() + "." + fe.Tag() {
	case "Nodes.min":
		return fmt.Sprintf("we need at least 2 nodes, found %d", s.Nodes)
	case "Elements.min":
		return fmt.Sprintf("we need at least 2 elements, found %d", s.Elements)
	case "Elements.ltefield":
		return fmt.Sprintf("we need at least as many nodes as elements, found %d nodes and %d elements", s.Nodes, s.Elements)
	case "Links.min":
		return fmt.Sprintf("we need at least 1 link, found %d", s.Links)
	case "Topology.oneof":
		return fmt.Sprintf("unknown topology %q, supported: %s", s.Topology, TopologyRandom)
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
