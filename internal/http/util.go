package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// readMultipartFile 读取 multipart 表单中的第一个 file 字段
func readMultipartFile(r *http.Request, maxBytes int64) (filename string, data []byte, contentType string, err error) {
	if err = r.ParseMultipartForm(maxBytes); err != nil {
		return "", nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, "", err
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxBytes))
	if err != nil {
		return "", nil, "", err
	}
	return header.Filename, data, header.Header.Get("Content-Type"), nil
}
