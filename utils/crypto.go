package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HMACSign вычисляет HMAC-SHA256 подпись данных.
// Используется для номеров KYC-документов: в базе хранится подпись,
// по которой можно искать документ, не раскрывая сам номер в индексе.
func HMACSign(data string, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// HMACVerify проверяет HMAC-подпись данных
func HMACVerify(data string, signature string, key string) bool {
	expected := HMACSign(data, key)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// MaskDocumentNumber маскирует номер документа для вывода в ответах API.
// Видимыми остаются только последние четыре символа.
func MaskDocumentNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
