package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default initializer", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then a global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
		})
	})

	Convey("Given an unknown format", t, func() {
		err := InitWith(&bytes.Buffer{}, "xml")

		Convey("Then initialization fails", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log format")
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, FormatJSON), ShouldBeNil)
		ctx := WithRequestID(context.Background(), "req-1")

		Convey("When logging with fields and a request id", func() {
			Named("loader").With(String("collection", "posts")).Info(ctx, "loaded", Int("count", 3), Error(errors.New("x")))

			var entry map[string]any
			So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)

			Convey("Then every field is present", func() {
				So(entry["msg"], ShouldEqual, "loaded")
				So(entry["logger"], ShouldEqual, "loader")
				So(entry["collection"], ShouldEqual, "posts")
				So(entry["count"], ShouldEqual, 3.0)
				So(entry["request_id"], ShouldEqual, "req-1")
				So(entry["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(SetLevelString("debug"), ShouldBeNil)
		So(SetLevelString("WARNING"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given contexts with and without a request id", t, func() {
		So(RequestID(context.Background()), ShouldEqual, "")
		So(RequestID(WithRequestID(context.Background(), "abc")), ShouldEqual, "abc")
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		So(func() { Nop().Error(context.Background(), "ignored") }, ShouldNotPanic)
	})
}
