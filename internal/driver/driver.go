// Package driver wires the core packages (term, match, rule, proof,
// parse) to the outside world: it owns the os.ReadFile-backed
// openIncluded collaborator (spec §6) and the structured logging
// around a parse-and-verify run. Nothing under pkg/ imports this
// package; it exists purely as the boundary layer a CLI front end
// calls into.
package driver

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"github.com/gitrdm/natded/pkg/parse"
	"github.com/gitrdm/natded/pkg/proof"
)

// Report summarizes a single verified (or failed) proof for a CLI
// front end to print, independent of whatever printer strategy it
// chooses (spec §6: "the core only calls back via the Line's
// numbering function and string coercions").
type Report struct {
	ProofName   string
	OK          bool
	FailingLine int
}

// Run loads path (and anything it includes) through the real
// filesystem, parses it, and returns one Report per proof in file
// order. A parse-level fault (unbalanced brackets, malformed block,
// unknown rule reference) aborts the whole file and is returned as
// err, per spec §7.2's "Parse errors ... abort the file."
func Run(logger *zap.Logger, path string) ([]Report, error) {
	logger.Info("loading proof file", zap.String("path", path))

	doc, err := parse.Parse(path, openIncluded(filepath.Dir(path)))
	if err != nil {
		logger.Error("parse failed", zap.Error(err))
		return nil, oops.In("driver").Code("parse_failed").With("path", path).Wrap(err)
	}

	reports := make([]Report, 0, len(doc.Proofs))
	for _, p := range doc.Proofs {
		result := doc.Results[p.Name()]
		logProofResult(logger, p, result)
		reports = append(reports, reportFor(p, result))
	}
	return reports, nil
}

func reportFor(p *proof.Proof, result proof.VerifyResult) Report {
	return Report{ProofName: p.Name(), OK: result.OK, FailingLine: result.FailingLine}
}

func logProofResult(logger *zap.Logger, p *proof.Proof, result proof.VerifyResult) {
	if result.OK {
		logger.Info("proof verified", zap.String("proof", p.Name()))
		return
	}
	logger.Warn("proof failed to verify",
		zap.String("proof", p.Name()),
		zap.Int("failing_line", result.FailingLine),
	)
}

// openIncluded returns a parse.FileOpener reading files relative to
// base (the directory of the top-level file), satisfying spec §6's
// openIncluded(path) collaborator interface with the filesystem.
func openIncluded(base string) parse.FileOpener {
	return func(path string) (string, error) {
		full := path
		if !filepath.IsAbs(full) {
			full = filepath.Join(base, path)
		}
		b, err := os.ReadFile(full)
		if err != nil {
			return "", oops.In("driver").Code("open_failed").With("path", full).Wrap(err)
		}
		return string(b), nil
	}
}
