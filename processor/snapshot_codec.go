package processor

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/LilVoxy/ai_talent_pulse/dataset"
)

// EncodeObservations объединяет два этапа обработки снимка:
// 1. Сериализация наблюдений в JSON
// 2. Сжатие результата с использованием Snappy
func EncodeObservations(observations []dataset.Observation) ([]byte, error) {
	raw, err := json.Marshal(observations)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сериализации наблюдений")
	}
	return CompressPayload(raw), nil
}

// DecodeObservations выполняет обратный процесс: распаковка и разбор JSON
func DecodeObservations(payload []byte) ([]dataset.Observation, error) {
	raw, err := DecompressPayload(payload)
	if err != nil {
		return nil, err
	}

	var observations []dataset.Observation
	if err := json.Unmarshal(raw, &observations); err != nil {
		return nil, errors.Wrap(err, "ошибка разбора наблюдений")
	}
	if observations == nil {
		observations = []dataset.Observation{}
	}
	return observations, nil
}
