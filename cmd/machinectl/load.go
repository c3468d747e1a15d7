package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/storage"
	"github.com/matst80/laser-finder/pkg/types"
)

// loadRaws reads machines from a {"data": [...]} JSON file, a gzipped
// snapshot or the machines endpoint at url.
func loadRaws(ctx context.Context, file, url string, limit int) ([]types.RawMachine, error) {
	switch {
	case file != "" && url != "":
		return nil, errors.New("use either --file or --url")
	case url != "":
		return storage.NewHTTPSource(url).Fetch(ctx, limit)
	case strings.HasSuffix(file, ".gz"):
		body := storage.MachinesResponse{}
		disk := storage.NewDiskStorage(filepath.Dir(file))
		if err := disk.LoadGzippedJson(&body, filepath.Base(file)); err != nil {
			return nil, err
		}
		return body.Data, nil
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		body := storage.MachinesResponse{}
		if err := jsoncompat.NewDecoder(f).Decode(&body); err != nil {
			return nil, err
		}
		return body.Data, nil
	}
	return nil, errors.New("one of --file or --url is required")
}
