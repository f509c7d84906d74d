package analysis

import (
	"github.com/sirupsen/logrus"

	"ultrascript/pkg/scope"
	"ultrascript/pkg/types"
)

// logConsumer mirrors every escape event into the structured log. It
// is always registered last so user consumers observe events first.
type logConsumer struct {
	log *logrus.Logger
}

func (lc *logConsumer) AnalysisStart(s *scope.Scope) {
	lc.log.WithFields(logrus.Fields{
		"function": s.Name,
		"depth":    s.Depth,
	}).Debug("escape analysis start")
}

func (lc *logConsumer) VariableEscaped(name string, capturing *scope.Scope, typ types.Type) {
	lc.log.WithFields(logrus.Fields{
		"function": capturing.Name,
		"variable": name,
		"type":     typ.String(),
	}).Debug("variable escaped")
}

func (lc *logConsumer) AnalysisComplete(s *scope.Scope) {
	lc.log.WithFields(logrus.Fields{
		"function": s.Name,
		"depth":    s.Depth,
		"selfDeps": s.SelfDeps.Len(),
	}).Debug("escape analysis complete")
}
