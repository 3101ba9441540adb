package tabular

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type stagedTable struct {
	filename string
	table    Table

	tmpPath string // written table awaiting rename
	bakPath string // previous destination contents, moved aside
	placed  bool   // tmpPath has been renamed onto the destination
}

// Batch collects tables destined for one output directory. Nothing touches
// the filesystem until Commit.
type Batch struct {
	dir    string
	tables []*stagedTable
}

// NewBatch creates a batch that writes into dir
func NewBatch(dir string) *Batch {
	return &Batch{dir: dir}
}

// Add stages a table to be written as filename inside the batch directory
func (b *Batch) Add(filename string, t Table) {
	b.tables = append(b.tables, &stagedTable{filename: filename, table: t})
}

// Paths returns the destination paths of the staged tables, in staging order
func (b *Batch) Paths() []string {
	paths := make([]string, len(b.tables))
	for i, st := range b.tables {
		paths[i] = b.dest(st)
	}
	return paths
}

func (b *Batch) dest(st *stagedTable) string {
	return filepath.Join(b.dir, st.filename)
}

// Commit writes every staged table to a temporary file next to its
// destination, then swaps them into place. Existing destinations are moved
// aside first and put back if any swap fails, so after an error every
// destination holds exactly what it held before Commit.
func (b *Batch) Commit() error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("%w: unable to create output directory %s: %v", ErrIOFailure, b.dir, err)
	}

	for _, st := range b.tables {
		if err := st.stage(b.dir); err != nil {
			b.cleanup()
			return err
		}
	}

	for _, st := range b.tables {
		if err := b.swap(st); err != nil {
			b.rollback()
			b.cleanup()
			return err
		}
	}

	for _, st := range b.tables {
		if st.bakPath != "" {
			os.Remove(st.bakPath)
			st.bakPath = ""
		}
		st.placed = false
	}
	return nil
}

func (st *stagedTable) stage(dir string) error {
	f, err := os.CreateTemp(dir, "."+st.filename+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: unable to create temporary file for %s: %v", ErrIOFailure, st.filename, err)
	}
	st.tmpPath = f.Name()

	// CreateTemp files are 0600
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return fmt.Errorf("%w: unable to set mode on %s: %v", ErrIOFailure, st.filename, err)
	}

	if err := st.table.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %v", ErrIOFailure, st.filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: unable to close %s: %v", ErrIOFailure, st.filename, err)
	}
	return nil
}

// swap moves any existing destination aside, then renames the staged file
// onto it.
func (b *Batch) swap(st *stagedTable) error {
	dest := b.dest(st)

	if _, err := os.Lstat(dest); err == nil {
		bak, err := os.CreateTemp(b.dir, "."+st.filename+".*.bak")
		if err != nil {
			return fmt.Errorf("%w: unable to reserve backup for %s: %v", ErrIOFailure, dest, err)
		}
		bak.Close()

		if err := os.Rename(dest, bak.Name()); err != nil {
			os.Remove(bak.Name())
			return fmt.Errorf("%w: unable to back up %s: %v", ErrIOFailure, dest, err)
		}
		st.bakPath = bak.Name()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: unable to inspect %s: %v", ErrIOFailure, dest, err)
	}

	if err := os.Rename(st.tmpPath, dest); err != nil {
		return fmt.Errorf("%w: unable to move %s into place: %v", ErrIOFailure, dest, err)
	}
	st.tmpPath = ""
	st.placed = true
	return nil
}

// rollback restores every destination touched by swap
func (b *Batch) rollback() {
	for _, st := range b.tables {
		dest := b.dest(st)
		switch {
		case st.bakPath != "":
			os.Rename(st.bakPath, dest)
			st.bakPath = ""
		case st.placed:
			os.Remove(dest)
		}
		st.placed = false
	}
}

func (b *Batch) cleanup() {
	for _, st := range b.tables {
		if st.tmpPath != "" {
			os.Remove(st.tmpPath)
			st.tmpPath = ""
		}
	}
}
