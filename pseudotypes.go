package reql

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Reserved pseudo-type tags (spec.md §3, §4.1).
const (
	pseudoTypeKey      = "$reql_type$"
	pseudoTypeTime     = "TIME"
	pseudoTypeBinary   = "BINARY"
	pseudoTypeGrouped  = "GROUPED_DATA"
	pseudoTypeGeometry = "GEOMETRY"
)

// GroupedItem is one (key, values) pair decoded from a GROUPED_DATA
// pseudo-type.
type GroupedItem struct {
	Group interface{}
	Items []interface{}
}

// decodeOpts controls pseudo-type decoding, driven by the run/global options
// named in spec.md §6 (time_format, binary_format, group_format).
type decodeOpts struct {
	rawTime   bool
	rawBinary bool
	rawGroup  bool
}

func decodeOptsFromQueryOpts(opts map[string]interface{}) decodeOpts {
	d := decodeOpts{}
	if v, ok := opts["time_format"]; ok {
		d.rawTime = v == "raw"
	}
	if v, ok := opts["binary_format"]; ok {
		d.rawBinary = v == "raw"
	}
	if v, ok := opts["group_format"]; ok {
		d.rawGroup = v == "raw"
	}
	return d
}

// decodePseudoTypes walks a decoded JSON value (the output of json.Unmarshal
// into interface{}) and translates every pseudo-type map it finds, per
// spec.md §4.1. It is idempotent: running it again on its own output is a
// no-op, because the translated native values ($reql_type$ aside) no longer
// carry the reserved key.
func decodePseudoTypes(v interface{}, opts decodeOpts) (interface{}, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		if rt, ok := val[pseudoTypeKey]; ok {
			rtName, _ := rt.(string)
			return decodePseudoType(rtName, val, opts)
		}
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			decoded, err := decodePseudoTypes(elem, opts)
			if err != nil {
				return nil, err
			}
			out[k] = decoded
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			decoded, err := decodePseudoTypes(elem, opts)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodePseudoType(name string, val map[string]interface{}, opts decodeOpts) (interface{}, error) {
	switch name {
	case pseudoTypeTime:
		if opts.rawTime {
			return val, nil
		}
		return decodeTime(val)
	case pseudoTypeBinary:
		if opts.rawBinary {
			return val, nil
		}
		return decodeBinary(val)
	case pseudoTypeGrouped:
		if opts.rawGroup {
			return val, nil
		}
		return decodeGrouped(val, opts)
	case pseudoTypeGeometry:
		return val, nil
	default:
		return val, nil
	}
}

func decodeTime(val map[string]interface{}) (interface{}, error) {
	epoch, ok := asFloat(val["epoch_time"])
	if !ok {
		return nil, newDriverError("reql: time pseudo-type missing epoch_time")
	}
	tzName, _ := val["timezone"].(string)
	loc, offset, err := parseReqlTimezone(tzName)
	if err != nil {
		return nil, err
	}

	sec := int64(epoch)
	nsec := int64((epoch - float64(sec)) * 1e9)
	t := time.Unix(sec, nsec).In(loc)
	_ = offset
	return t, nil
}

func parseReqlTimezone(tz string) (*time.Location, int, error) {
	if tz == "" || tz == "Z" {
		return time.UTC, 0, nil
	}
	sign := 1
	rest := tz
	switch rest[0] {
	case '+':
		rest = rest[1:]
	case '-':
		sign = -1
		rest = rest[1:]
	default:
		return nil, 0, newDriverError("reql: invalid timezone %q", tz)
	}
	var hh, mm int
	if _, err := fmt.Sscanf(rest, "%02d:%02d", &hh, &mm); err != nil {
		return nil, 0, newDriverError("reql: invalid timezone %q: %s", tz, err)
	}
	offset := sign * (hh*3600 + mm*60)
	return time.FixedZone(tz, offset), offset, nil
}

func decodeBinary(val map[string]interface{}) (interface{}, error) {
	data, _ := val["data"].(string)
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, wrapDriverError(err)
	}
	return b, nil
}

func decodeGrouped(val map[string]interface{}, opts decodeOpts) (interface{}, error) {
	rows, _ := val["data"].([]interface{})
	items := make([]GroupedItem, 0, len(rows))
	for _, row := range rows {
		pair, ok := row.([]interface{})
		if !ok || len(pair) == 0 {
			continue
		}
		group, err := decodePseudoTypes(pair[0], opts)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, 0, len(pair)-1)
		for _, v := range pair[1:] {
			decoded, err := decodePseudoTypes(v, opts)
			if err != nil {
				return nil, err
			}
			values = append(values, decoded)
		}
		items = append(items, GroupedItem{Group: group, Items: values})
	}
	return items, nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// formatReqlTimezone renders t's UTC offset (in t's location, at that
// instant) as the "+HH:MM"/"-HH:MM" string the wire protocol expects.
func formatReqlTimezone(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
