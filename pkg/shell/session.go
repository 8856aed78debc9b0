package shell

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/command"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/editsvc"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/lang"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/pipeline"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"
)

// Evaluation is the service name reported when input is evaluated before a
// language is loaded.
const Evaluation = "Evaluation"

// Session is the state of one shell session: the commands, the editor services
// and the loaded language.
type Session struct {
	// ID identifies the session in the log.
	ID string

	languages lang.Table
	files     pipeline.FileReader
	services  *editsvc.Services
	invoker   *command.Invoker

	mutex    sync.Mutex
	composer *pipeline.Composer

	exited atomic.Bool
}

// NewSession creates a session with no language loaded. Languages lists the
// languages :load accepts; files is used by :open.
func NewSession(languages lang.Table, files pipeline.FileReader) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		languages: languages,
		files:     files,
		services:  editsvc.New(),
	}
	s.invoker = command.NewInvoker(s.builtins(), evaluationUnavailable)
	return s
}

var evaluationUnavailable = command.NewFunc("evaluate code", "<code>",
	func(...string) result.Result {
		return result.ExceptionResult{Cause: &result.ServiceUnavailable{Service: Evaluation}}
	})

// Execute runs one line of input.
func (s *Session) Execute(line string) result.Result {
	logger.Debugw("execute", "session", s.ID, "line", line)
	r := s.invoker.Execute(line)
	if result.IsFailure(r) {
		logger.Debugw("failed", "session", s.ID, "err", r.(result.ExceptionResult).Cause)
	}
	return r
}

// Invoker returns the command invoker of the session.
func (s *Session) Invoker() *command.Invoker { return s.invoker }

// Services returns the editor services of the session.
func (s *Session) Services() *editsvc.Services { return s.services }

// Composer returns the pipeline of the loaded language, or nil.
func (s *Session) Composer() *pipeline.Composer {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.composer
}

// Exited reports whether :exit has been run.
func (s *Session) Exited() bool { return s.exited.Load() }

// Load loads the named language. It replaces the commands of any previously
// loaded language and makes evaluation the default command.
func (s *Session) Load(name string) result.Result {
	impl, err := s.languages.New(name)
	if err != nil {
		return result.ExceptionResult{Cause: err}
	}
	c := pipeline.New(impl, s.files)

	s.mutex.Lock()
	s.composer = c
	s.mutex.Unlock()
	s.services.Load(c)

	s.invoker.ResetCommands()
	for name, cmd := range languageCommands(c, s.services) {
		s.invoker.AddCommand(name, cmd)
	}
	s.invoker.SetDefault(evalCommand(c))
	logger.Infow("language loaded", "session", s.ID, "language", impl.Name())
	return result.MessageResult{Text: ui.T("loaded "+impl.Name(), ui.FgGreen)}
}
