package solrxtest

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/sjson"
)

type field struct {
	key   string
	value any
}

// object marshals its fields in order, as Solr does.
type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func responseHeader(status int) []byte {
	b, _ := sjson.SetBytes([]byte(`{}`), "responseHeader.status", status)
	b, _ = sjson.SetBytes(b, "responseHeader.QTime", 1)
	return b
}

func errorBody(code int, msg string) []byte {
	b := responseHeader(code)
	b, _ = sjson.SetBytes(b, "error.metadata", []string{
		"error-class", "org.apache.solr.common.SolrException",
		"root-error-class", "org.apache.solr.common.SolrException",
	})
	b, _ = sjson.SetBytes(b, "error.msg", msg)
	b, _ = sjson.SetBytes(b, "error.code", code)
	return b
}

func setRaw(b []byte, path string, v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	b, err = sjson.SetRawBytes(b, path, raw)
	if err != nil {
		panic(err)
	}
	return b
}
