// Package ingest imports question bundles (questions plus their media) into
// a repository and blob store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/motilinbal/question-bank/pkg/questionbank"
)

// Bundle is the on-disk import format: one source with its questions and
// the media they reference.
type Bundle struct {
	SourceName        string           `json:"source_name"`
	SourceDescription string           `json:"source_description,omitempty"`
	Questions         []QuestionBundle `json:"questions"`
}

// QuestionBundle is a single question in a bundle. Question and Explanation
// carry raw markup with un-hydrated placeholders.
type QuestionBundle struct {
	QuestionID  string               `json:"question_id"`
	Name        string               `json:"name,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
	Question    string               `json:"question"`
	Explanation string               `json:"explanation,omitempty"`
	Choices     []questionbank.Choice `json:"choices,omitempty"`
	Media       []MediaBundle        `json:"media,omitempty"`
}

// MediaBundle describes one asset. File-backed kinds name a local file via
// AssetPath; content kinds carry their markup in Content.
type MediaBundle struct {
	MediaID     string `json:"media_id"`
	Type        string `json:"type"` // image, audio, video, page, table
	AssetPath   string `json:"asset_path,omitempty"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
}

// Report summarizes one import run.
type Report struct {
	QuestionsImported int
	QuestionsSkipped  int
	MediaImported     int
	MediaSkipped      int
}

// Importer writes bundles into a repository and copies media files into a
// blob store under the per-kind directory convention.
type Importer struct {
	repo  questionbank.Repository
	blobs questionbank.BlobStore
}

// New creates an importer over the given repository and blob store.
func New(repo questionbank.Repository, blobs questionbank.BlobStore) *Importer {
	return &Importer{repo: repo, blobs: blobs}
}

// ImportFile reads a bundle from a JSON file and imports it.
func (i *Importer) ImportFile(ctx context.Context, filePath string) (*Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}

	return i.Import(ctx, &bundle)
}

// Import writes every question and media item in the bundle. Questions and
// media that already exist are skipped, making re-imports of the same bundle
// safe.
func (i *Importer) Import(ctx context.Context, bundle *Bundle) (*Report, error) {
	report := &Report{}

	for _, qb := range bundle.Questions {
		for _, mb := range qb.Media {
			imported, err := i.importMedia(ctx, mb)
			if err != nil {
				return report, err
			}
			if imported {
				report.MediaImported++
			} else {
				report.MediaSkipped++
			}
		}

		id := qb.QuestionID
		if id == "" {
			id = uuid.NewString()
		}

		if _, err := i.repo.GetQuestion(ctx, id); err == nil {
			report.QuestionsSkipped++
			continue
		} else if !errors.Is(err, questionbank.ErrQuestionNotFound) {
			return report, fmt.Errorf("check question %s: %w", id, err)
		}

		question := &questionbank.Question{
			ID:              id,
			Name:            qb.Name,
			Source:          bundle.SourceName,
			Tags:            qb.Tags,
			QuestionHTML:    qb.Question,
			ExplanationHTML: qb.Explanation,
			Choices:         qb.Choices,
		}
		if err := i.repo.CreateQuestion(ctx, question); err != nil {
			return report, fmt.Errorf("create question %s: %w", id, err)
		}
		report.QuestionsImported++
	}

	return report, nil
}

func (i *Importer) importMedia(ctx context.Context, mb MediaBundle) (bool, error) {
	kind := questionbank.AssetKind(mb.Type)
	if !kind.IsFileBacked() && !kind.IsContent() {
		return false, fmt.Errorf("media %s: unknown type %q", mb.MediaID, mb.Type)
	}

	if _, err := i.repo.FindAsset(ctx, kind, mb.MediaID); err == nil {
		return false, nil
	} else if !errors.Is(err, questionbank.ErrAssetNotFound) {
		return false, fmt.Errorf("check media %s: %w", mb.MediaID, err)
	}

	doc := &questionbank.AssetDocument{
		ID:          mb.MediaID,
		Description: mb.Description,
	}

	if kind.IsContent() {
		doc.Markup = mb.Content
	} else {
		if mb.AssetPath == "" {
			return false, fmt.Errorf("media %s: asset_path is required for %s", mb.MediaID, kind)
		}
		f, err := os.Open(mb.AssetPath)
		if err != nil {
			return false, fmt.Errorf("media %s: %w", mb.MediaID, err)
		}
		defer f.Close()

		name := sanitizeFileName(filepath.Base(mb.AssetPath))
		key := path.Join(kind.Subdir(), name)
		if err := i.blobs.Upload(ctx, key, f); err != nil {
			return false, fmt.Errorf("media %s: %w", mb.MediaID, err)
		}
		doc.Name = name
	}

	if err := i.repo.CreateAsset(ctx, kind, doc); err != nil {
		return false, fmt.Errorf("media %s: %w", mb.MediaID, err)
	}
	return true, nil
}

// sanitizeFileName keeps stored file names URL-safe: printable ASCII only,
// spaces and dropped runes become underscores.
func sanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r < 128 && unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
