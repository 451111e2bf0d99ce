package usecase

import (
	"encoding/json"
	"errors"
)

// ErrUnparseable — сигнальная ошибка: сырые данные не являются корректным JSON.
// Наружу транспортного слоя она не выходит, пайплайн превращает её в
// фиксированный ответ пользователю.
var ErrUnparseable = errors.New("submission is not valid JSON")

// Payload — результат нормализации сырой отправки из мини-приложения.
// Object == nil означает валидный, но не объектный JSON (число, строка и т.п.);
// такой ввод классификатор оборачивает в generic_lead с исходным текстом.
type Payload struct {
	Object map[string]any
	Raw    string
}

// Normalize разбирает сырой блоб. Схема не валидируется — это работа
// классификатора; здесь только вопрос "это JSON или нет".
func Normalize(raw string) (Payload, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Payload{}, ErrUnparseable
	}
	obj, _ := v.(map[string]any)
	return Payload{Object: obj, Raw: raw}, nil
}
