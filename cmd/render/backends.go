package main

import (
	"github.com/pipelined/render/backend"
	"github.com/pipelined/render/backend/malgo"
	"github.com/pipelined/render/backend/null"
	"github.com/pipelined/render/backend/oto"
	"github.com/pipelined/render/backend/portaudio"
	"github.com/pipelined/render/log"
)

type backendFactory struct {
	help string
	new  func() (backend.Backend, error)
}

var backends = map[string]backendFactory{
	"null": {
		help: "software device without output",
		new: func() (backend.Backend, error) {
			return null.New()
		},
	},
	"portaudio": {
		help: "default PortAudio output device",
		new: func() (backend.Backend, error) {
			return portaudio.New()
		},
	},
	"oto": {
		help: "oto player, 48000 Hz stereo",
		new: func() (backend.Backend, error) {
			return oto.New()
		},
	},
	"malgo": {
		help: "miniaudio default playback device",
		new: func() (backend.Backend, error) {
			return malgo.New(malgo.WithLogger(log.GetLogger()))
		},
	},
}
