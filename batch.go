package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/damgoweb/pinmap/csvdb"
	"github.com/damgoweb/pinmap/pinlib"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type batchResult struct {
	Resolved int
	Failed   int
}

// runBatch resolves queued points one by one into a fresh session and
// writes its export to outputPath. Rows which cannot be parsed or
// resolved are logged and skipped. Pacing is done by the collaborator
// clients so nothing is parallelized here.
func runBatch(ctx context.Context,
	fs afero.Fs,
	pinmap *pinlib.Pinmap,
	log zerolog.Logger,
	queuePath, outputPath string) (batchResult, error) {
	result := batchResult{}

	queueFile, err := fs.Open(queuePath)
	if err != nil {
		return result, fmt.Errorf("cannot open a queue: %w", err)
	}

	defer queueFile.Close()

	sess := pinmap.Sessions().Create()
	defer pinmap.Sessions().Drop(sess.ID)

	reader := csvdb.NewCSVReader[csvdb.QueueItem](queueFile, csvdb.NewQueueItem)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item, err := reader.Read()

		var rowErr *csvdb.RowError

		switch {
		case errors.Is(err, io.EOF):
			return result, writeBatchOutput(fs, pinmap, sess, outputPath)
		case errors.As(err, &rowErr):
			log.Warn().Int("line", rowErr.Line).Err(rowErr.Err).Msg("Skip incorrect row")

			result.Failed++

			continue
		case err != nil:
			return result, fmt.Errorf("cannot read a queue: %w", err)
		}

		if err := addBatchItem(ctx, pinmap, sess, item); err != nil {
			log.Warn().Str("name", item.Name).Str("kind", item.Kind).Str("value", item.Value).Err(err).Msg("Skip unresolved point")

			result.Failed++

			continue
		}

		result.Resolved++
	}
}

func addBatchItem(ctx context.Context, pinmap *pinlib.Pinmap, sess *pinlib.Session, item csvdb.QueueItem) error {
	kind, err := pinlib.ParseSourceKind(item.Kind)
	if err != nil {
		return err
	}

	query, err := pinlib.ParseQuery(kind, item.Value)
	if err != nil {
		return err
	}

	_, err = pinmap.AddPoint(ctx, sess, item.Name, query)

	return err
}

func writeBatchOutput(fs afero.Fs, pinmap *pinlib.Pinmap, sess *pinlib.Session, outputPath string) error {
	tmpPath := outputPath + ".tmp"

	outFile, err := fs.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("cannot create an output file: %w", err)
	}

	if err := pinmap.Export(sess, outFile); err != nil {
		outFile.Close()
		fs.Remove(tmpPath) // nolint: errcheck

		return fmt.Errorf("cannot export points: %w", err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("cannot close an output file: %w", err)
	}

	if err := fs.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("cannot move an output file: %w", err)
	}

	return nil
}
