// Package corpus turns a directory tree of raw mail files into
// message.Message values.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gomessage "github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/scandal/internal/message"
)

// Options controls which headers are read and how addresses are normalized.
type Options struct {
	SenderHeader     string
	RecipientHeaders []string
	Lowercase        bool
}

// DefaultOptions mirrors a plain From / To / Cc reading.
func DefaultOptions() Options {
	return Options{
		SenderHeader:     "From",
		RecipientHeaders: []string{"To", "Cc"},
		Lowercase:        true,
	}
}

// Stats counts what a walk saw.
type Stats struct {
	Files      int `json:"files"`
	Messages   int `json:"messages"`
	Skipped    int `json:"skipped"`    // parsed, but no sender or no recipient
	Unreadable int `json:"unreadable"` // open or header parse failed
}

// Reader walks a corpus root.
type Reader struct {
	root   string
	opts   Options
	logger *slog.Logger
}

// NewReader creates a Reader. A nil logger falls back to slog.Default().
func NewReader(root string, opts Options, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SenderHeader == "" {
		opts.SenderHeader = "From"
	}
	return &Reader{root: root, opts: opts, logger: logger}
}

// Walk visits every regular file under the root in lexical order and calls fn
// for each message that has a sender and at least one recipient. Files that
// cannot be parsed are counted and skipped. An error from fn or a cancelled
// ctx stops the walk.
func (r *Reader) Walk(ctx context.Context, fn func(*message.Message) error) (Stats, error) {
	var st Stats
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == r.root {
				return err
			}
			r.logger.Warn("corpus entry unreadable", "path", path, "err", err)
			st.Unreadable++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		st.Files++

		msg, err := r.ReadFile(path)
		if err != nil {
			r.logger.Debug("skipping unparseable message", "path", path, "err", err)
			st.Unreadable++
			return nil
		}
		if msg.From == "" || len(msg.Recipients) == 0 {
			st.Skipped++
			return nil
		}
		st.Messages++
		return fn(msg)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return st, err
		}
		return st, fmt.Errorf("walk corpus %s: %w", r.root, err)
	}
	return st, nil
}

// ReadFile parses one mail file. Message.Path is relative to the root.
func (r *Reader) ReadFile(path string) (*message.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		rel = path
	}
	return Parse(f, filepath.ToSlash(rel), r.opts)
}

// Parse reads the header block of a single message from rd.
func Parse(rd io.Reader, path string, opts Options) (*message.Message, error) {
	e, err := gomessage.Read(rd)
	if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
		return nil, fmt.Errorf("parse header %s: %w", path, err)
	}
	h := mail.Header{Header: e.Header}

	msg := &message.Message{Path: path}
	if id, err := h.MessageID(); err == nil && id != "" {
		msg.ID = id
	} else {
		msg.ID = uuid.NewString()
	}
	if subj, err := h.Subject(); err == nil {
		msg.Subject = subj
	} else {
		msg.Subject = h.Get("Subject")
	}

	sender := opts.SenderHeader
	if sender == "" {
		sender = "From"
	}
	if from := headerAddresses(h, sender); len(from) > 0 {
		msg.From = Normalize(from[0], opts.Lowercase)
	}
	for _, key := range opts.RecipientHeaders {
		for _, addr := range headerAddresses(h, key) {
			if a := Normalize(addr, opts.Lowercase); a != "" {
				msg.Recipients = append(msg.Recipients, message.Recipient{
					Header:  canonicalHeader(key),
					Address: a,
				})
			}
		}
	}
	return msg, nil
}

func canonicalHeader(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + strings.ToLower(key[1:])
}
