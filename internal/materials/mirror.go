// Package materials mirrors the study-materials git repository locally and
// exposes its files as records.
package materials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/alexisbeaulieu97/careerdesk/internal/logger"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// Action describes what Sync did.
type Action string

const (
	ActionCloned   Action = "cloned"
	ActionUpdated  Action = "updated"
	ActionUpToDate Action = "up-to-date"
)

// Status is the outcome of a Sync.
type Status struct {
	Action Action
	Head   string
	Branch string
}

// Options configures a Mirror.
type Options struct {
	Repository  string
	Branch      string
	Destination string
	Logger      *logger.Logger
}

// Mirror keeps a local checkout of the materials repository.
type Mirror struct {
	repository  string
	branch      string
	destination string
	log         *logger.Logger
}

// NewMirror validates opts.
func NewMirror(opts Options) (*Mirror, error) {
	if strings.TrimSpace(opts.Repository) == "" {
		return nil, apperrors.NewValidationError("materials.repository", "no materials repository configured", nil)
	}
	if strings.TrimSpace(opts.Destination) == "" {
		return nil, apperrors.NewValidationError("materials.destination", "destination is required", nil)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Mirror{
		repository:  opts.Repository,
		branch:      strings.TrimSpace(opts.Branch),
		destination: opts.Destination,
		log:         log.With("component", "materials", "destination", opts.Destination),
	}, nil
}

// Destination is the local checkout path.
func (m *Mirror) Destination() string {
	return m.destination
}

// Sync clones the repository when absent and pulls it otherwise. A
// destination that holds unrelated files or another remote is left alone.
func (m *Mirror) Sync(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	entries, err := os.ReadDir(m.destination)
	switch {
	case errors.Is(err, os.ErrNotExist), err == nil && len(entries) == 0:
		return m.clone(ctx)
	case err != nil:
		return Status{}, fmt.Errorf("cannot access destination: %w", err)
	}

	repo, err := git.PlainOpen(m.destination)
	if err != nil {
		return Status{}, apperrors.NewValidationError("materials.destination",
			fmt.Sprintf("%s exists but is not a git repository", m.destination), err)
	}

	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil && len(remote.Config().URLs) > 0 {
		if actual := remote.Config().URLs[0]; actual != m.repository {
			return Status{}, apperrors.NewValidationError("materials.repository",
				fmt.Sprintf("remote URL is %s (expected %s)", actual, m.repository), nil)
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Status{}, fmt.Errorf("open worktree: %w", err)
	}

	pull := &git.PullOptions{RemoteName: git.DefaultRemoteName}
	if m.branch != "" {
		pull.ReferenceName = plumbing.NewBranchReferenceName(m.branch)
		pull.SingleBranch = true
	}

	action := ActionUpdated
	if err := wt.PullContext(ctx, pull); err != nil {
		if !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return Status{}, fmt.Errorf("failed to pull materials: %w", err)
		}
		action = ActionUpToDate
	}

	status, err := headStatus(repo, action)
	if err == nil {
		m.log.With("action", status.Action, "head", status.Head).Info("materials synced")
	}
	return status, err
}

func (m *Mirror) clone(ctx context.Context) (Status, error) {
	if err := os.MkdirAll(filepath.Dir(m.destination), 0o755); err != nil {
		return Status{}, fmt.Errorf("failed to create destination directory: %w", err)
	}

	opts := &git.CloneOptions{URL: m.repository}
	if m.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(m.branch)
		opts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, m.destination, false, opts)
	if err != nil {
		return Status{}, fmt.Errorf("failed to clone materials: %w", err)
	}

	status, err := headStatus(repo, ActionCloned)
	if err == nil {
		m.log.With("head", status.Head).Info("materials cloned")
	}
	return status, err
}

func headStatus(repo *git.Repository, action Action) (Status, error) {
	head, err := repo.Head()
	if err != nil {
		return Status{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	return Status{Action: action, Head: head.Hash().String(), Branch: head.Name().Short()}, nil
}

// Files lists the files at HEAD of the local checkout as records with
// path, title, subject, size and updatedAt fields.
func (m *Mirror) Files() ([]record.Record, error) {
	repo, err := git.PlainOpen(m.destination)
	if err != nil {
		return nil, fmt.Errorf("materials not synced yet: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("load HEAD commit: %w", err)
	}

	updated := commit.Committer.When.UTC().Format(time.RFC3339)
	files, err := commit.Files()
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer files.Close()

	records := []record.Record{}
	err = files.ForEach(func(f *object.File) error {
		if strings.HasPrefix(path.Base(f.Name), ".") {
			return nil
		}
		records = append(records, record.New(map[string]any{
			"_id":       f.Name,
			"path":      f.Name,
			"title":     titleFor(f.Name),
			"subject":   subjectFor(f.Name),
			"size":      f.Size,
			"hash":      f.Hash.String(),
			"updatedAt": updated,
		}))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk materials: %w", err)
	}
	return records, nil
}

func titleFor(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	return strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(base))
}

func subjectFor(name string) string {
	dir := path.Dir(name)
	if dir == "." || dir == "" {
		return "general"
	}
	return strings.SplitN(dir, "/", 2)[0]
}
