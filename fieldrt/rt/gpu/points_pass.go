package gpu

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldrt/rt/shaders"
)

type gpuTexture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

func (t *gpuTexture) release() {
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}

type gpuPoints struct {
	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32
	Count          uint32
	UniformBuffer  *wgpu.Buffer
	BindGroup      *wgpu.BindGroup

	boundTexture *gpuTexture
	uploaded     bool
	version      uint64
}

func (o *gpuPoints) release() {
	if o.BindGroup != nil {
		o.BindGroup.Release()
		o.BindGroup = nil
	}
	if o.InstanceBuffer != nil {
		o.InstanceBuffer.Release()
		o.InstanceBuffer = nil
	}
	if o.UniformBuffer != nil {
		o.UniformBuffer.Release()
		o.UniformBuffer = nil
	}
}

// PointsPass draws every Points object of a scene as instanced sprites. GPU
// copies of clouds and textures live until their CPU side is disposed.
type PointsPass struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	FrameBuffer    *wgpu.Buffer
	FrameBindGroup *wgpu.BindGroup
	Sampler        *wgpu.Sampler

	frameBGL  *wgpu.BindGroupLayout
	objectBGL *wgpu.BindGroupLayout
	pipelines map[particlefield.Blending]*wgpu.RenderPipeline

	white    *gpuTexture
	textures map[particlefield.AssetId]*gpuTexture
	objects  map[*particlefield.Points]*gpuPoints
	scratch  []PointInstance
}

func NewPointsPass(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat) (*PointsPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PointsShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	p := &PointsPass{
		Device:    device,
		Queue:     queue,
		pipelines: make(map[particlefield.Blending]*wgpu.RenderPipeline),
		textures:  make(map[particlefield.AssetId]*gpuTexture),
		objects:   make(map[*particlefield.Points]*gpuPoints),
	}

	p.frameBGL, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "PointsFrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(frameUniforms{})),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	p.objectBGL, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "PointsObjectBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(objectUniforms{})),
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "PointsPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.frameBGL, p.objectBGL},
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	for _, blending := range []particlefield.Blending{particlefield.NormalBlending, particlefield.AdditiveBlending} {
		pipeline, err := createPointsPipeline(device, shaderModule, pipelineLayout, format, blending)
		if err != nil {
			return nil, err
		}
		p.pipelines[blending] = pipeline
	}

	p.FrameBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "PointsFrameUniforms",
		Size:  uint64(unsafe.Sizeof(frameUniforms{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	p.FrameBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "PointsFrameBG",
		Layout: p.frameBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.FrameBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, err
	}

	p.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.,
		LodMaxClamp:   1.,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	p.white, err = p.uploadTexture("PointsWhite", []uint8{255, 255, 255, 255}, 1, 1)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func createPointsPipeline(device *wgpu.Device, module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, format wgpu.TextureFormat, blending particlefield.Blending) (*wgpu.RenderPipeline, error) {
	blend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		},
		Alpha: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		},
	}
	if blending == particlefield.AdditiveBlending {
		blend.Color.DstFactor = wgpu.BlendFactorOne
		blend.Alpha.DstFactor = wgpu.BlendFactorOne
	}

	return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("PointsPipeline(%d)", blending),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(PointInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     blend,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil, // sprites are drawn back to front by blending mode only
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

func (p *PointsPass) uploadTexture(label string, pix []uint8, width, height uint32) (*gpuTexture, error) {
	extent := wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}
	tex, err := p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	err = p.Queue.WriteTexture(tex.AsImageCopy(), pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  width * 4,
		RowsPerImage: height,
	}, &extent)
	if err != nil {
		tex.Release()
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &gpuTexture{Texture: tex, View: view}, nil
}

func (p *PointsPass) texture(tex *particlefield.Texture) (*gpuTexture, error) {
	if gt, ok := p.textures[tex.Id]; ok {
		return gt, nil
	}
	gt, err := p.uploadTexture(string(tex.Id), tex.Pix, tex.Width, tex.Height)
	if err != nil {
		return nil, fmt.Errorf("upload texture %s: %w", tex.Id, err)
	}
	p.textures[tex.Id] = gt
	id := tex.Id
	tex.OnDispose(func() {
		if gt, ok := p.textures[id]; ok {
			delete(p.textures, id)
			gt.release()
		}
	})
	return gt, nil
}

func (p *PointsPass) object(points *particlefield.Points) (*gpuPoints, error) {
	if obj, ok := p.objects[points]; ok {
		return obj, nil
	}
	uniforms, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: points.Name + "Uniforms",
		Size:  uint64(unsafe.Sizeof(objectUniforms{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	obj := &gpuPoints{UniformBuffer: uniforms}
	p.objects[points] = obj
	points.Geometry.OnDispose(func() {
		if obj, ok := p.objects[points]; ok {
			delete(p.objects, points)
			obj.release()
		}
	})
	return obj, nil
}

// Sync uploads whatever changed since the last frame: instance data when the
// cloud's positions version moved, the bind group when the sprite changed, and
// the per-object uniforms every time.
func (p *PointsPass) Sync(points *particlefield.Points) error {
	if points.Geometry == nil || points.Geometry.Disposed() {
		return nil
	}
	obj, err := p.object(points)
	if err != nil {
		return err
	}

	version := points.Geometry.PositionsVersion()
	if !obj.uploaded || obj.version != version {
		p.scratch = PackInstances(p.scratch, points)
		count := uint32(len(p.scratch))
		if count > 0 {
			if obj.InstanceBuffer == nil || obj.InstanceCap < count {
				if obj.InstanceBuffer != nil {
					obj.InstanceBuffer.Release()
				}
				obj.InstanceCap = count
				obj.InstanceBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: points.Name + "Instances",
					Size:  uint64(count) * uint64(unsafe.Sizeof(PointInstance{})),
					Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
				})
				if err != nil {
					return err
				}
			}
			if err := p.Queue.WriteBuffer(obj.InstanceBuffer, 0, wgpu.ToBytes(p.scratch)); err != nil {
				return err
			}
		}
		obj.Count = count
		obj.uploaded = true
		obj.version = version
	}

	tex := p.white
	if points.Material.Map != nil && !points.Material.Map.Disposed() {
		if tex, err = p.texture(points.Material.Map); err != nil {
			return err
		}
	}
	if obj.BindGroup == nil || obj.boundTexture != tex {
		if obj.BindGroup != nil {
			obj.BindGroup.Release()
		}
		obj.BindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  points.Name + "BG",
			Layout: p.objectBGL,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: obj.UniformBuffer, Size: wgpu.WholeSize},
				{Binding: 1, TextureView: tex.View},
				{Binding: 2, Sampler: p.Sampler},
			},
		})
		if err != nil {
			return err
		}
		obj.boundTexture = tex
	}

	u := makeObjectUniforms(points, tex != p.white)
	return p.Queue.WriteBuffer(obj.UniformBuffer, 0, wgpu.ToBytes([]objectUniforms{u}))
}

func (p *PointsPass) UpdateFrame(u frameUniforms) error {
	return p.Queue.WriteBuffer(p.FrameBuffer, 0, wgpu.ToBytes([]frameUniforms{u}))
}

// drawOrder puts normal-blended clouds before additive ones, keeping scene
// order otherwise.
func drawOrder(objects []*particlefield.Points) []*particlefield.Points {
	ordered := slices.Clone(objects)
	slices.SortStableFunc(ordered, func(a, b *particlefield.Points) int {
		return int(a.Material.Blending) - int(b.Material.Blending)
	})
	return ordered
}

func (p *PointsPass) Draw(pass *wgpu.RenderPassEncoder, objects []*particlefield.Points) {
	pass.SetBindGroup(0, p.FrameBindGroup, nil)
	for _, points := range drawOrder(objects) {
		obj, ok := p.objects[points]
		if !ok || obj.InstanceBuffer == nil || obj.Count == 0 || obj.BindGroup == nil {
			continue
		}
		pass.SetPipeline(p.pipelines[points.Material.Blending])
		pass.SetBindGroup(1, obj.BindGroup, nil)
		pass.SetVertexBuffer(0, obj.InstanceBuffer, 0, obj.InstanceBuffer.GetSize())
		pass.Draw(6, obj.Count, 0, 0)
	}
}

func (p *PointsPass) Release() {
	for points, obj := range p.objects {
		obj.release()
		delete(p.objects, points)
	}
	for id, tex := range p.textures {
		tex.release()
		delete(p.textures, id)
	}
	if p.white != nil {
		p.white.release()
		p.white = nil
	}
	for blending, pipeline := range p.pipelines {
		pipeline.Release()
		delete(p.pipelines, blending)
	}
	if p.FrameBindGroup != nil {
		p.FrameBindGroup.Release()
		p.FrameBindGroup = nil
	}
	if p.FrameBuffer != nil {
		p.FrameBuffer.Release()
		p.FrameBuffer = nil
	}
	if p.Sampler != nil {
		p.Sampler.Release()
		p.Sampler = nil
	}
	if p.objectBGL != nil {
		p.objectBGL.Release()
		p.objectBGL = nil
	}
	if p.frameBGL != nil {
		p.frameBGL.Release()
		p.frameBGL = nil
	}
}
