package middleware

import (
	"net/http"
	"strconv"
	"time"

	"goldloan/utils"

	"github.com/google/uuid"
)

var (
	// Глобальный rate limiter
	globalLimiter = utils.NewRateLimiter(100, time.Minute) // 100 запросов в минуту
)

type LoggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *LoggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware логирует информацию о запросе и записывает метрики
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Присваиваем запросу идентификатор для трассировки
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		// Создаем обертку для ResponseWriter
		lrw := &LoggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Обрабатываем запрос
		next.ServeHTTP(lrw, r)

		// Логируем информацию и записываем метрики
		duration := time.Since(start)
		utils.LogInfo("Request: %s %s - Status: %d - Duration: %v - RequestID: %s",
			r.Method,
			r.URL.Path,
			lrw.statusCode,
			duration,
			requestID,
		)
		utils.GetMetrics().RecordRequest(duration, lrw.statusCode >= http.StatusInternalServerError)
	})
}

// RateLimitMiddleware ограничивает частоту запросов по IP-адресу клиента
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.RemoteAddr

		// Проверяем лимит
		if !globalLimiter.Allow(clientIP) {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(globalLimiter.Limit()))
			w.Header().Set("X-RateLimit-Reset", globalLimiter.GetResetTime(clientIP).Format(time.RFC3339))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		// Добавляем заголовки с информацией о лимитах
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(globalLimiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(globalLimiter.GetRemaining(clientIP)))

		next.ServeHTTP(w, r)
	})
}
