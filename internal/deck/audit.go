package deck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/models"
)

// Finding is one content problem discovered by Audit.
type Finding struct {
	CardID  int
	Step    int // 0 when the finding is not about a study step
	Problem string
}

func (f Finding) String() string {
	if f.Step > 0 {
		return fmt.Sprintf("card %d step %d: %s", f.CardID, f.Step, f.Problem)
	}
	return fmt.Sprintf("card %d: %s", f.CardID, f.Problem)
}

// Audit reports study steps that renderers will have to skip and, when
// assetDir is not empty, image references with no file under it.
func Audit(d *Deck, assetDir string) []Finding {
	var findings []Finding
	missing := func(id, step int, ref string) {
		if assetDir == "" || ref == "" {
			return
		}
		p := filepath.Join(assetDir, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
		if _, err := os.Stat(p); err != nil {
			findings = append(findings, Finding{CardID: id, Step: step, Problem: "missing image " + ref})
		}
	}

	for _, g := range d.graphs {
		missing(g.ID, 0, g.Practice.AnswerImage)
		if g.Study == nil {
			continue
		}
		missing(g.ID, 0, g.Study.BaseImage)
		for i, s := range g.Study.Steps {
			n := s.Step
			if n == 0 {
				n = i + 1
			}
			if !s.Renderable() {
				findings = append(findings, Finding{CardID: g.ID, Step: n, Problem: fmt.Sprintf("%s step has no %s", s.Action, requiredField(s.Action))})
			}
			missing(g.ID, n, s.Image)
		}
	}
	return findings
}

func requiredField(action models.StepAction) string {
	switch action {
	case models.ActionDraw:
		return "path"
	case models.ActionOverlay:
		return "image"
	case models.ActionHighlight:
		return "coordinates"
	default:
		return "renderer"
	}
}

// AuditJob runs Audit on a worker pool and logs each finding.
type AuditJob struct {
	Deck     *Deck
	AssetDir string

	// Findings holds the result after Run.
	Findings []Finding
}

func (j *AuditJob) Name() string { return "deck-audit" }

func (j *AuditJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("deck-audit")
	if err := ctx.Err(); err != nil {
		return err
	}
	j.Findings = Audit(j.Deck, j.AssetDir)
	for _, f := range j.Findings {
		log.Warn("%s", f)
	}
	log.Info("audited %d graphs, %d findings", j.Deck.Len(), len(j.Findings))
	return nil
}
