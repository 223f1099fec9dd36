// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package logrusx

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/clinia/solrx/errorx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestCliniaErrorCtx(t *testing.T) {
	t.Run("should return error when no details", func(t *testing.T) {
		err := errorx.InvalidArgumentErrorf("invalid content")
		assert.Equal(t, map[string]interface{}{"message": "[INVALID_ARGUMENT] invalid content"}, cliniaErrorCtx(err))
	})

	t.Run("should return error with nested details", func(t *testing.T) {
		err := errorx.InvalidArgumentErrorf("unknown options")
		nestedErr := errorx.InvalidArgumentErrorf("unknown option 'shards'")
		nestedErr = nestedErr.WithDetails(errorx.InvalidArgumentErrorf("did you mean 'num_shards'"))
		err = err.WithDetails(errorx.InvalidArgumentErrorf("unknown option 'foo'"), nestedErr)

		assert.Equal(t, map[string]interface{}{
			"message": "[INVALID_ARGUMENT] unknown options",
			"details": []map[string]interface{}{
				{
					"message": "[INVALID_ARGUMENT] unknown option 'foo'",
				},
				{
					"message": "[INVALID_ARGUMENT] unknown option 'shards'",
					"details": []map[string]interface{}{
						{
							"message": "[INVALID_ARGUMENT] did you mean 'num_shards'",
						},
					},
				},
			},
		}, cliniaErrorCtx(err))
	})
}

func TestWithError(t *testing.T) {
	l := NewNoop()

	t.Run("should keep the error type of clinia errors", func(t *testing.T) {
		ll := l.WithError(errorx.NotFoundErrorf("collection foo"))
		assert.Equal(t, map[string]interface{}{
			"message": "[NOT_FOUND] collection foo",
			"type":    "NOT_FOUND",
		}, ll.Data["error"])
	})

	t.Run("should log plain errors by message", func(t *testing.T) {
		ll := l.WithError(errors.New("boom"))
		assert.Equal(t, map[string]interface{}{"message": "boom"}, ll.Data["error"])
	})

	t.Run("should ignore nil errors", func(t *testing.T) {
		ll := l.WithError(nil)
		_, ok := ll.Data["error"]
		assert.False(t, ok)
	})
}

func TestWithURL(t *testing.T) {
	u, err := url.Parse("http://solr:8983/solr/admin/collections?action=CREATE&name=foo")
	require.NoError(t, err)

	t.Run("should redact the query string", func(t *testing.T) {
		ll := NewNoop().WithURL("url", u)
		assert.Equal(t, "http://solr:8983/solr/admin/collections?redacted", ll.Data["url"])
	})

	t.Run("should keep the query string when leaking", func(t *testing.T) {
		ll := New("solrx", "test", LeakSensitive()).WithURL("url", u)
		assert.Equal(t, u.String(), ll.Data["url"])
	})
}

func TestLogfAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	l := New("solrx", "test", WithOutput(&buf), ForceFormat("json"), ForceLevel(logrus.DebugLevel))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	l.WithContext(ctx).WithAttributes(attribute.String("solr.action", "CREATE")).Debugf("issuing %s", "CREATE")

	out := buf.String()
	assert.Contains(t, out, `"TraceID":"0102030405060708090a0b0c0d0e0f10"`)
	assert.Contains(t, out, `"SpanID":"0102030405060708"`)
	assert.Contains(t, out, `"solr_action":"CREATE"`)
	assert.Contains(t, out, `"msg":"issuing CREATE"`)
}
