package particlefield

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

type AssetId string

// Texture is decoded RGBA8 pixel data. Once created it is never modified.
type Texture struct {
	Id     AssetId
	Width  uint32
	Height uint32
	Pix    []uint8

	hooks disposeHooks
}

// OnDispose runs fn when the texture is released, or immediately if it already is.
func (t *Texture) OnDispose(fn func()) {
	t.hooks.onDispose(fn)
}

func (t *Texture) Disposed() bool {
	return t.hooks.disposed
}

// AssetServer owns textures for one mount. It is used from the frame goroutine
// only; decoding for async loads happens elsewhere and is handed back as an image.
type AssetServer struct {
	textures map[AssetId]*Texture
}

func NewAssetServer() *AssetServer {
	return &AssetServer{textures: make(map[AssetId]*Texture)}
}

func (server *AssetServer) CreateTexture(texels []uint8, width uint32, height uint32) *Texture {
	if uint32(len(texels)) != width*height*4 {
		panic(fmt.Sprintf("texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(texels)))
	}
	tex := &Texture{
		Id:     makeAssetId(),
		Width:  width,
		Height: height,
		Pix:    texels,
	}
	server.textures[tex.Id] = tex
	return tex
}

func (server *AssetServer) CreateTextureFromImage(img *image.RGBA) *Texture {
	b := img.Bounds()
	return server.CreateTexture(img.Pix, uint32(b.Dx()), uint32(b.Dy()))
}

// LoadTexture decodes a PNG and resamples it to size x size. A size of zero
// keeps the original dimensions.
func (server *AssetServer) LoadTexture(filename string, size int) (*Texture, error) {
	img, err := decodeSprite(filename, size)
	if err != nil {
		return nil, err
	}
	return server.CreateTextureFromImage(img), nil
}

type TextureResult struct {
	Path  string
	Image *image.RGBA
	Err   error
}

// LoadTextureAsync decodes on a separate goroutine. The channel yields exactly
// one result and is buffered, so an abandoned load never blocks.
func (server *AssetServer) LoadTextureAsync(filename string, size int) <-chan TextureResult {
	ch := make(chan TextureResult, 1)
	go func() {
		img, err := decodeSprite(filename, size)
		ch <- TextureResult{Path: filename, Image: img, Err: err}
	}()
	return ch
}

// GenerateSparkTexture draws a soft white dot with a bright core, used when no
// sprite image is configured.
func (server *AssetServer) GenerateSparkTexture(size int) *Texture {
	if size <= 0 {
		size = 64
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c) / (c + 0.5)
			a := 0.0
			if d < 1 {
				a = math.Pow(1-d, 2)
			}
			v := uint8(math.Round(a * 255))
			i := img.PixOffset(x, y)
			img.Pix[i+0] = 255
			img.Pix[i+1] = 255
			img.Pix[i+2] = 255
			img.Pix[i+3] = v
		}
	}
	return server.CreateTextureFromImage(img)
}

func (server *AssetServer) Texture(id AssetId) (*Texture, bool) {
	tex, ok := server.textures[id]
	return tex, ok
}

func (server *AssetServer) Len() int {
	return len(server.textures)
}

func (server *AssetServer) Release(id AssetId) {
	tex, ok := server.textures[id]
	if !ok {
		return
	}
	delete(server.textures, id)
	if tex.hooks.dispose() {
		tex.Pix = nil
	}
}

func (server *AssetServer) ReleaseAll() {
	for id := range server.textures {
		server.Release(id)
	}
}

func decodeSprite(filename string, size int) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open sprite: %w", err)
	}
	defer file.Close()

	src, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode sprite %s: %w", filename, err)
	}

	bounds := src.Bounds()
	if size <= 0 {
		dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		xdraw.Draw(dst, dst.Bounds(), src, bounds.Min, xdraw.Src)
		return dst, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst, nil
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
