package processor

import (
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// CompressPayload сжимает данные алгоритмом Snappy
func CompressPayload(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// DecompressPayload распаковывает данные, сжатые CompressPayload
func DecompressPayload(data []byte) ([]byte, error) {
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка распаковки snappy")
	}
	return decompressed, nil
}
