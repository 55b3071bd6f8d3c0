package channelmap

const (
	// MinusThreeDB is -3 dB as linear gain. It keeps perceived loudness
	// when one channel is duplicated into two.
	MinusThreeDB = float32(0.7079)

	// downmixNorm is 1/(1 + sqrt(2) + 1/sqrt(2)), it keeps a full scale
	// 5.1 signal from clipping after the downmix.
	downmixNorm = float32(0.3203772410170407)
	invSqrt2    = float32(0.7071067811865475244)
)

// WAVE channel order for 5.1.
const (
	frontLeft = iota
	frontRight
	frontCenter
	lowFrequency
	backLeft
	backRight
)

// predefined maps are consulted after custom profiles.
var predefined = []Map{
	MonoToStereo(),
	StereoToMono(),
	SurroundToStereo(),
}

// MonoToStereo duplicates a single channel into two at -3 dB.
func MonoToStereo() Map {
	return Map{
		NumSource: 1,
		NumSink:   2,
		Connections: []Connection{
			{Source: 0, Sink: 0, Gain: MinusThreeDB},
			{Source: 0, Sink: 1, Gain: MinusThreeDB},
		},
	}
}

// StereoToMono averages two channels.
func StereoToMono() Map {
	return Map{
		NumSource: 2,
		NumSink:   1,
		Connections: []Connection{
			{Source: 0, Sink: 0, Gain: 0.5},
			{Source: 1, Sink: 0, Gain: 0.5},
		},
	}
}

// SurroundToStereo downmixes 5.1 in WAVE order (FL FR FC LFE BL BR) to
// stereo following ITU-R BS.775. LFE is dropped.
func SurroundToStereo() Map {
	side := downmixNorm * invSqrt2
	return Map{
		NumSource: 6,
		NumSink:   2,
		Connections: []Connection{
			{Source: frontLeft, Sink: 0, Gain: downmixNorm},
			{Source: frontCenter, Sink: 0, Gain: side},
			{Source: backLeft, Sink: 0, Gain: side},
			{Source: frontRight, Sink: 1, Gain: downmixNorm},
			{Source: frontCenter, Sink: 1, Gain: side},
			{Source: backRight, Sink: 1, Gain: side},
		},
	}
}

// Predefined returns copies of the built-in profiles.
func Predefined() []Map {
	maps := make([]Map, 0, len(predefined))
	for _, m := range predefined {
		maps = append(maps, *m.clone())
	}
	return maps
}

func lookup(source, sink int, custom []Map) (Map, bool) {
	for _, set := range [][]Map{custom, predefined} {
		for _, m := range set {
			if m.NumSource == source && m.NumSink == sink {
				return m, true
			}
		}
	}
	return Map{}, false
}
