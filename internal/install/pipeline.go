package install

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"pattooweb/internal/history"
	"pattooweb/internal/logging"
	"pattooweb/internal/preflight"
)

const (
	StageDependencies  = "dependencies"
	StageConfiguration = "configuration"
)

// NextSteps is printed after a successful run.
const NextSteps = `
Hooray successful installation! Panna Cotta Time!

Next Steps:
    1) Run 'pattoo-web start' to accept agent data.
    2) Configure your agents to post data to this server.

Other steps:
    1) You can make pattoo-web a system daemon by running the scripts in the
       'setup/systemd' directory. Visit this link for details:

       https://github.com/PalisadoesFoundation/pattoo-web/tree/master/setup/systemd

`

// DependencyChecker verifies the packages listed in a requirements file.
type DependencyChecker interface {
	CheckAll(ctx context.Context, requirementsPath string) error
}

// ConfigValidator verifies the configuration directory.
type ConfigValidator interface {
	Validate(ctx context.Context) error
}

// Recorder persists the outcome of a run.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Pipeline runs the install stages in order.
type Pipeline struct {
	Dependencies     DependencyChecker
	Validator        ConfigValidator
	RequirementsPath string
	Out              io.Writer
	Logger           *slog.Logger
	// Recorder is optional. Recording failures are logged and ignored.
	Recorder Recorder
	Now      func() time.Time
}

type stage struct {
	name string
	run  func(context.Context) error
	ok   string
}

// Run executes every stage and prints the next steps on success. The returned
// report holds one entry per executed stage; the error is the failing stage's
// error as the stage returned it.
func (p *Pipeline) Run(ctx context.Context) (preflight.Report, error) {
	runID := uuid.NewString()
	logger := logging.NewComponentLogger(p.Logger, "install").With(logging.String(logging.FieldRunID, runID))
	started := p.now()

	stages := []stage{
		{
			name: StageDependencies,
			run: func(ctx context.Context) error {
				return p.Dependencies.CheckAll(ctx, p.RequirementsPath)
			},
			ok: p.RequirementsPath,
		},
		{
			name: StageConfiguration,
			run:  p.Validator.Validate,
			ok:   "configuration check passed",
		},
	}

	var report preflight.Report
	var runErr error
	for _, st := range stages {
		logger.Debug("stage started", logging.String(logging.FieldStage, st.name))
		if err := st.run(ctx); err != nil {
			report.Add(preflight.Result{Name: st.name, Detail: firstLine(err.Error())})
			logger.Error("stage failed",
				logging.String(logging.FieldStage, st.name),
				logging.Error(err),
			)
			runErr = err
			break
		}
		report.Add(preflight.Result{Name: st.name, Passed: true, Detail: st.ok})
		logger.Info("stage passed", logging.String(logging.FieldStage, st.name))
	}

	if runErr == nil {
		fmt.Fprint(p.out(), NextSteps)
	}

	p.record(ctx, logger, history.Run{
		ID:         runID,
		StartedAt:  started,
		FinishedAt: p.now(),
		Passed:     runErr == nil,
		Stages:     report.Stages,
	})
	return report, runErr
}

func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, run history.Run) {
	if p.Recorder == nil {
		return
	}
	if err := p.Recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("record install run failed", logging.Error(err))
	}
}

func (p *Pipeline) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
