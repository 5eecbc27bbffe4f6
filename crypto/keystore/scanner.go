package keystore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "keystore")

const jsonExt = ".json"

// ScanDirectory pairs every *.json file in keystoreDir with
// passwordDir/<basename>.txt and decodes each pair independently. A
// failure on one pair is logged and the scan continues; the batch
// operation itself never fails as a whole (design section 4.E).
func ScanDirectory(keystoreDir, passwordDir string) ([]*Record, error) {
	entries, err := os.ReadDir(keystoreDir)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != jsonExt {
			log.WithField("file", entry.Name()).Debug("skipping non-keystore file")
			continue
		}

		base := strings.TrimSuffix(entry.Name(), jsonExt)
		keystorePath := filepath.Join(keystoreDir, entry.Name())
		passwordPath := filepath.Join(passwordDir, base+".txt")

		record, err := decodeFile(keystorePath, passwordPath)
		if err != nil {
			log.WithError(err).WithField("file", entry.Name()).Warn("could not decode keystore, skipping")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func decodeFile(keystorePath, passwordPath string) (*Record, error) {
	jsonBytes, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, err
	}
	password, err := os.ReadFile(passwordPath)
	if err != nil {
		return nil, err
	}
	return Decode(jsonBytes, password)
}
