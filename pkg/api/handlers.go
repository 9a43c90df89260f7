package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/skyforge/sdlog/pkg/codec"
)

// handleHealth reports liveness and the current session id.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{
		"status":  "ok",
		"session": s.session.String(),
	})
}

// handleRegisterFormat registers (or redefines) a message format. A
// redefinition builds a fresh format object, so the writer re-announces the
// id on its next record.
func (s *Server) handleRegisterFormat(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	format, err := codec.NewMessageFormat(req.ID, req.Name)
	if err != nil {
		sendError(w, fmt.Sprintf("Invalid format: %v", err), http.StatusBadRequest)
		return
	}
	if err := format.AddColumns(req.Columns, req.Format, req.Units); err != nil {
		sendError(w, fmt.Sprintf("Invalid columns: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.formats[req.ID] = format
	s.metrics.SetRegisteredFormats(len(s.formats))
	s.mu.Unlock()

	sendSuccess(w, formatInfo(format))
}

// handleListFormats lists the registered formats in message id order.
func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	infos := make([]FormatInfo, 0, len(s.formats))
	for _, format := range s.formats {
		infos = append(infos, formatInfo(format))
	}
	s.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	sendSuccess(w, infos)
}

// handleAppendRecord appends one record against a registered format.
func (s *Server) handleAppendRecord(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var req RecordRequest
	if err := decoder.Decode(&req); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	format, ok := s.formats[req.ID]
	s.mu.Unlock()
	if !ok {
		sendError(w, fmt.Sprintf("No format registered for message id %d", req.ID), http.StatusNotFound)
		return
	}

	values, err := convertValues(format, req.Values)
	if err != nil {
		s.metrics.RecordWrite(format.Type(), 0, false)
		sendError(w, fmt.Sprintf("Invalid values: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err = s.writer.Write(format, values...)
	s.mu.Unlock()

	recordSize := int(format.Size()) + 3
	if err != nil {
		s.metrics.RecordWrite(format.Type(), 0, false)
		sendError(w, fmt.Sprintf("Write failed: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordWrite(format.Type(), recordSize, true)
	sendSuccess(w, map[string]interface{}{
		"type":  format.Type(),
		"bytes": recordSize,
	})
}

// convertValues maps positional JSON values onto typed encoder values, one
// per column, directed by each column's type code.
func convertValues(format *codec.MessageFormat, raw []interface{}) ([]codec.Value, error) {
	if len(raw) != format.ColumnCount() {
		return nil, fmt.Errorf("format %q needs %d values, got %d",
			format.Type(), format.ColumnCount(), len(raw))
	}

	values := make([]codec.Value, len(raw))
	for i := range raw {
		column := format.Column(i)
		value, err := convertValue(column, raw[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", column.Name, err)
		}
		values[i] = value
	}
	return values, nil
}

func convertValue(column *codec.ColumnFormat, raw interface{}) (codec.Value, error) {
	switch column.Type {
	case 'b', 'B', 'M', 'c', 'C', 'h', 'H', 'e', 'E', 'L', 'i', 'I', 'q', 'Q':
		num, ok := raw.(json.Number)
		if !ok {
			return codec.Value{}, fmt.Errorf("expected a number, got %T", raw)
		}
		if v, err := num.Int64(); err == nil {
			return codec.Int(v), nil
		}
		var u uint64
		if _, err := fmt.Sscan(num.String(), &u); err != nil {
			return codec.Value{}, fmt.Errorf("not an integer: %s", num)
		}
		return codec.Uint(u), nil

	case 'f', 'd':
		num, ok := raw.(json.Number)
		if !ok {
			return codec.Value{}, fmt.Errorf("expected a number, got %T", raw)
		}
		v, err := num.Float64()
		if err != nil {
			return codec.Value{}, fmt.Errorf("not a float: %s", num)
		}
		return codec.Float64(v), nil

	case 'n', 'N', 'Z':
		str, ok := raw.(string)
		if !ok {
			return codec.Value{}, fmt.Errorf("expected a string, got %T", raw)
		}
		return codec.Str(str), nil

	default:
		return codec.Value{}, fmt.Errorf("column type %q cannot be encoded", string(column.Type))
	}
}

func formatInfo(format *codec.MessageFormat) FormatInfo {
	return FormatInfo{
		ID:      format.ID(),
		Name:    format.Type(),
		Format:  format.FormatString(),
		Columns: format.ColumnNames(","),
		Length:  format.Size() + 3,
	}
}
