/*
Package render turns a sample generating callback into a continuous stream
of interleaved float32 frames for an audio output device.

Concept

The user callback produces fixed size buffers of a fixed number of source
channels. The device asks for an arbitrary number of frames with its own
number of channels, one call at a time, from a real-time thread. Pipeline
sits in between:

    backend --Render(out)--> Pipeline --refill--> callback
                                 |
                                 +--> delay line (optional)
                                 +--> channel map --> out

Pipeline owns a work buffer of FramesPerBuffer frames. Every Render call
drains the work buffer into the device buffer through the channel map and
refills it from the callback as many times as needed, so device buffers
smaller, equal or larger than the work buffer are all served exactly.

If MaxLatencyMs is not zero, every refill goes through a delay line that
shifts the signal by exactly MaxLatencyMs milliseconds. The choice between
direct and delayed rendering is made once, when the pipeline is created.

Lifecycle

Context binds a Pipeline to a backend.Backend:

    b, _ := null.New()
    ctx, err := render.Init(b, render.Config{
        FramesPerBuffer: 256,
        ChannelCount:    1,
        Callback:        sine,
    })
    if err != nil {
        // nothing was started and nothing leaked
    }
    defer ctx.Terminate()

Init negotiates the device format, allocates every buffer with the
configured allocator and starts the backend. Terminate stops the backend,
then releases the buffers. The render path never blocks, allocates or
locks.
*/
package render
