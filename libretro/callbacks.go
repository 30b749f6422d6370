package libretro

import (
	"log"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	hostapi "github.com/user-none/retrohost/api"
)

// Native callback slots are a scarce per-process resource, so the
// trampolines are created once and dispatch to whichever Callbacks is
// attached. Only one core is ever attached at a time.

type callbackPointers struct {
	environment      uintptr
	videoRefresh     uintptr
	audioSample      uintptr
	audioSampleBatch uintptr
	inputPoll        uintptr
	inputState       uintptr
}

// PanicLogger is implemented by Callbacks that want panics recovered
// from their handlers written to their own logger.
type PanicLogger interface {
	CallbackLogger() hostapi.Logger
}

type attachment struct {
	cb  Callbacks
	log hostapi.Logger
}

func newAttachment(cb Callbacks) *attachment {
	a := &attachment{cb: cb, log: log.Default()}
	if pl, ok := cb.(PanicLogger); ok {
		if l := pl.CallbackLogger(); l != nil {
			a.log = l
		}
	}
	return a
}

var (
	active atomic.Pointer[attachment]

	trampolinesOnce sync.Once
	trampolines     callbackPointers
)

func attach(cb Callbacks) callbackPointers {
	trampolinesOnce.Do(func() {
		trampolines = callbackPointers{
			environment:      purego.NewCallback(environmentTrampoline),
			videoRefresh:     purego.NewCallback(videoRefreshTrampoline),
			audioSample:      purego.NewCallback(audioSampleTrampoline),
			audioSampleBatch: purego.NewCallback(audioSampleBatchTrampoline),
			inputPoll:        purego.NewCallback(inputPollTrampoline),
			inputState:       purego.NewCallback(inputStateTrampoline),
		}
	})
	active.Store(newAttachment(cb))
	return trampolines
}

func detach() {
	active.Store(nil)
}

// recover keeps Go panics from unwinding into core frames.
func (a *attachment) recover(name string) {
	if r := recover(); r != nil {
		a.log.Printf("Warning: recovered panic in %s callback: %v", name, r)
	}
}

// Every trampoline takes and returns pointer-sized values so the same
// functions are valid callbacks on all platforms purego supports.

func environmentTrampoline(cmd uintptr, data unsafe.Pointer) (ret uintptr) {
	a := active.Load()
	if a == nil {
		return 0
	}
	defer a.recover("environment")
	if a.cb.Environment(uint32(cmd), data) {
		return 1
	}
	return 0
}

func videoRefreshTrampoline(data unsafe.Pointer, width, height, pitch uintptr) uintptr {
	a := active.Load()
	if a == nil {
		return 0
	}
	defer a.recover("video refresh")
	w, h := int(uint32(width)), int(uint32(height))
	var frame []byte
	if data != nil && pitch > 0 && h > 0 {
		frame = unsafe.Slice((*byte)(data), int(pitch)*h)
	}
	a.cb.VideoRefresh(frame, w, h, int(pitch))
	return 0
}

func audioSampleTrampoline(left, right uintptr) uintptr {
	a := active.Load()
	if a == nil {
		return 0
	}
	defer a.recover("audio sample")
	a.cb.AudioSample(int16(left), int16(right))
	return 0
}

func audioSampleBatchTrampoline(data unsafe.Pointer, frames uintptr) (ret uintptr) {
	a := active.Load()
	if a == nil || data == nil || frames == 0 {
		return frames
	}
	defer a.recover("audio sample batch")
	samples := unsafe.Slice((*int16)(data), int(frames)*2)
	return uintptr(a.cb.AudioSampleBatch(samples))
}

func inputPollTrampoline() uintptr {
	a := active.Load()
	if a == nil {
		return 0
	}
	defer a.recover("input poll")
	a.cb.InputPoll()
	return 0
}

func inputStateTrampoline(port, device, index, id uintptr) (ret uintptr) {
	a := active.Load()
	if a == nil {
		return 0
	}
	defer a.recover("input state")
	v := a.cb.InputState(uint32(port), uint32(device), uint32(index), uint32(id))
	return uintptr(uint16(v))
}
