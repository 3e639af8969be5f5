package ebitenhost

import (
	"encoding/binary"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	clickSampleRate = 44100
	clickFrequency  = 1800.0
	clickDuration   = 0.03 // seconds
)

// ClickSound plays a short synthesized click through Ebitengine's audio
// context.
type ClickSound struct {
	player *audio.Player
	volume float64
}

// NewClickSound creates the click player, reusing the process's audio
// context if one exists.
func NewClickSound() *ClickSound {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(clickSampleRate)
	}
	return &ClickSound{
		player: ctx.NewPlayerFromBytes(clickPCM(ctx.SampleRate())),
		volume: 0.5,
	}
}

// SetVolume sets the playback volume in [0, 1].
func (c *ClickSound) SetVolume(v float64) {
	c.volume = max(0, min(v, 1))
}

// Play restarts the click from the beginning.
func (c *ClickSound) Play() {
	if c.player.IsPlaying() {
		c.player.Pause()
	}
	if err := c.player.SetPosition(0); err != nil {
		return
	}
	c.player.SetVolume(c.volume)
	c.player.Play()
}

// clickPCM renders an exponentially decaying sine as 16-bit little-endian
// stereo.
func clickPCM(sampleRate int) []byte {
	n := int(float64(sampleRate) * clickDuration)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		env := math.Exp(-t * 150)
		v := int16(math.Sin(2*math.Pi*clickFrequency*t) * env * math.MaxInt16 * 0.8)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
