// Package socket broadcasts document changes to socket.io clients.
package socket

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

const (
	DocumentsRoom = socketio.Room("documents")

	EventSaved   = "document-saved"
	EventDeleted = "document-deleted"
)

type (
	SavedPayload struct {
		Filename string `json:"filename"`
		Path     string `json:"path"`
	}
	DeletedPayload struct {
		Filename string `json:"filename"`
	}
)

// Feed is a socket.io server where every client joins DocumentsRoom and
// receives change events. It implements core.Notifier.
type Feed struct {
	ioo *socketio.Server
}

func NewFeed(maxBufferSize int64) *Feed {
	opts := socketio.DefaultServerOptions()
	opts.SetMaxHttpBufferSize(maxBufferSize)
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	ioo := socketio.NewServer(nil, opts)

	// Middleware runs before the CONNECT ack, so a client is in the room by
	// the time it learns it is connected.
	ioo.Use(func(socket *socketio.Socket, next func(*socketio.ExtendedError)) {
		socket.Join(DocumentsRoom)
		next(nil)
	})

	ioo.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)
		me := socket.Id()
		logrus.WithField("socket_id", me).Debug("Change feed client connected")

		socket.On("disconnect", func(...any) {
			logrus.WithField("socket_id", me).Debug("Change feed client disconnected")
			socket.RemoveAllListeners("")
		})
	})

	return &Feed{ioo: ioo}
}

func (f *Feed) Handler() http.Handler {
	return f.ioo.ServeHandler(nil)
}

func (f *Feed) DocumentSaved(name, location string) {
	f.emit(EventSaved, SavedPayload{Filename: name, Path: location})
}

func (f *Feed) DocumentDeleted(name string) {
	f.emit(EventDeleted, DeletedPayload{Filename: name})
}

func (f *Feed) emit(event string, payload any) {
	if err := f.ioo.To(DocumentsRoom).Emit(event, payload); err != nil {
		logrus.WithFields(logrus.Fields{"event": event, "error": err}).Warn("Failed to broadcast change")
	}
}

func (f *Feed) Close() {
	f.ioo.Close(nil)
}
