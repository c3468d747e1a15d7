package storage

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/types"
)

const machinesFile = "machines.json.gz"

// DiskStorage keeps gzipped JSON snapshots under RootFolder.
type DiskStorage struct {
	RootFolder string
}

func NewDiskStorage(rootFolder string) *DiskStorage {
	return &DiskStorage{RootFolder: rootFolder}
}

// paths returns the final file name and a unique temporary name next to it.
func (d *DiskStorage) paths(name string) (string, string) {
	fileName := filepath.Join(d.RootFolder, name)
	return fileName, fileName + ".tmp-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func (d *DiskStorage) SaveMachines(raws []types.RawMachine) error {
	return d.SaveGzippedJson(MachinesResponse{Data: raws}, machinesFile)
}

func (d *DiskStorage) LoadMachines() ([]types.RawMachine, error) {
	body := MachinesResponse{}
	if err := d.LoadGzippedJson(&body, machinesFile); err != nil {
		return nil, err
	}
	if body.Data == nil {
		body.Data = []types.RawMachine{}
	}
	return body.Data, nil
}

// SaveGzippedJson writes to a temporary file first and renames it into place
// so readers never see a partial snapshot.
func (d *DiskStorage) SaveGzippedJson(data any, name string) error {
	if err := os.MkdirAll(d.RootFolder, 0o755); err != nil {
		return err
	}
	fileName, tmpFileName := d.paths(name)
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	zipWriter := gzip.NewWriter(file)
	err = jsoncompat.NewEncoder(zipWriter).Encode(data)
	if closeErr := zipWriter.Close(); err == nil {
		err = closeErr
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Join(err, os.Remove(tmpFileName))
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedJson(data any, name string) error {
	fileName, _ := d.paths(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()
	return jsoncompat.NewDecoder(zipReader).Decode(data)
}
