package luatable

import (
	"github.com/cockroachdb/errors"

	"github.com/seitarof/cpptolua/internal/codemodel"
)

// Generator serializes a translation unit and writes the literal out.
type Generator interface {
	Generate(cfg Config, root *codemodel.Item) error
}

// Config is the minimum config contract required by generator.
type Config interface {
	OutputFilename() string
}

// FileWriter writes the produced literal.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	serializer *Serializer
	writer     FileWriter
}

// New creates a generator.
func New(s *Serializer, w FileWriter) Generator {
	return &generatorImpl{serializer: s, writer: w}
}

func (g *generatorImpl) Generate(cfg Config, root *codemodel.Item) error {
	if root == nil {
		return errors.New("no translation unit to serialize")
	}
	literal := g.serializer.Serialize(root)
	if err := g.writer.Write(cfg.OutputFilename(), []byte(literal)); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}
