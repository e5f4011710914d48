package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetbook-dev/budgetbook/internal/auditlog"
	"github.com/budgetbook-dev/budgetbook/internal/budget"
	"github.com/budgetbook-dev/budgetbook/internal/config"
	"github.com/budgetbook-dev/budgetbook/internal/gitops"
	"github.com/budgetbook-dev/budgetbook/internal/model"
)

// session bundles the opened budget with the app config for one command run.
type session struct {
	svc *budget.Service
	cfg *config.Config
}

// openSession resolves the data file (flag, then remembered last file), opens
// it, and replays the audit trail so transaction ids survive across CLI
// invocations.
func openSession(opts *globalOptions) (*session, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	file := opts.file
	if file == "" {
		file = cfg.LastFile
	}
	if file == "" {
		return nil, fmt.Errorf("no budget file: pass --file or run budgetbook init")
	}

	svc, err := budget.Open(file, opts.logger())
	if err != nil {
		return nil, err
	}

	sess := &session{svc: svc, cfg: cfg}
	if cfg.Audit.Enabled {
		if err := sess.replayAudit(); err != nil {
			return nil, fmt.Errorf("replaying audit log: %w", err)
		}
	}

	if cfg.LastFile != file {
		cfg.LastFile = file
		if err := config.Save(cfgPath, cfg); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// replayAudit restores every transaction that was added but never deleted.
// Spending totals are already persisted, so replay only rebuilds the ledger.
func (s *session) replayAudit() error {
	f, err := os.Open(s.auditPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := auditlog.Read(f)
	if err != nil {
		return err
	}

	deleted := make(map[string]bool)
	for _, e := range entries {
		if e.Action == auditlog.ActionDelete {
			deleted[e.TransactionID] = true
		}
	}
	for _, e := range entries {
		if e.Action != auditlog.ActionAdd || deleted[e.TransactionID] {
			continue
		}
		s.svc.RestoreTransaction(model.Transaction{
			ID:       e.TransactionID,
			Year:     e.Year,
			Month:    e.Month,
			Category: e.Category,
			Expense:  e.Expense,
			Amount:   e.Amount,
			Comment:  e.Comment,
		})
	}
	return nil
}

func (s *session) auditPath() string {
	return s.cfg.AuditPath(s.svc.Path())
}

// audit appends one mutation to the audit trail if auditing is enabled.
func (s *session) audit(action auditlog.Action, txn model.Transaction) error {
	if !s.cfg.Audit.Enabled {
		return nil
	}
	return auditlog.Append(s.auditPath(), auditlog.Entry{
		Timestamp:     time.Now(),
		Action:        action,
		TransactionID: txn.ID,
		Year:          txn.Year,
		Month:         txn.Month,
		Category:      txn.Category,
		Expense:       txn.Expense,
		Amount:        txn.Amount,
		Comment:       txn.Comment,
	})
}

// save persists the budget and, when configured, commits the data file.
func (s *session) save() error {
	if err := s.svc.Save(); err != nil {
		return err
	}
	if s.cfg.Git.AutoCommit {
		dir := filepath.Dir(s.svc.Path())
		if gitops.IsRepo(dir) {
			msg := "budgetbook: update " + filepath.Base(s.svc.Path())
			if _, err := gitops.CommitFile(dir, filepath.Base(s.svc.Path()), msg,
				s.cfg.Git.AuthorName, s.cfg.Git.AuthorEmail); err != nil {
				return fmt.Errorf("auto-commit: %w", err)
			}
		}
	}
	return nil
}

// periodFlags adds --year/--month flags defaulting to the current period.
func periodFlags(cmd *cobra.Command) (year, month *string) {
	now := model.CurrentPeriod(time.Now())
	year = cmd.Flags().String("year", now.Year, "budget year (YYYY)")
	month = cmd.Flags().String("month", now.Month, "budget month (full name)")
	return year, month
}
