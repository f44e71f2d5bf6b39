package catalog

// Static model family data. Declaration order is the tab order in the UI.

var fluxFields = []Field{
	{
		Name:     "model",
		Kind:     KindSelect,
		Label:    "Model Version",
		Required: true,
		Options:  []string{"flux-1.1-pro", "flux-pro", "flux-dev", "flux-schnell"},
		Default:  "flux-1.1-pro",
	},
	{
		Name:     "prompt",
		Kind:     KindTextArea,
		Label:    "Prompt",
		Required: true,
	},
	{
		Name:    "steps",
		Kind:    KindRange,
		Label:   "Steps",
		Min:     1,
		Max:     50,
		Default: float64(20),
	},
	{
		Name:    "height",
		Kind:    KindRange,
		Label:   "Height",
		Min:     256,
		Max:     1440,
		Step:    32,
		Default: float64(1024),
	},
	{
		Name:    "width",
		Kind:    KindRange,
		Label:   "Width",
		Min:     256,
		Max:     1440,
		Step:    32,
		Default: float64(1024),
	},
}

var recraftSizes = []string{
	"1024x1024", "1365x1024", "1024x1365", "1536x1024", "1024x1536",
	"1820x1024", "1024x1820", "1024x2048", "2048x1024", "1434x1024",
	"1024x1434", "1024x1280", "1280x1024", "1024x1707", "1707x1024",
}

var recraftStyles = []string{
	"digital_illustration",
	"digital_illustration/pixel_art",
	"digital_illustration/hand_drawn",
	"digital_illustration/grain",
	"digital_illustration/infantile_sketch",
	"digital_illustration/2d_art_poster",
	"digital_illustration/handmade_3d",
	"digital_illustration/hand_drawn_outline",
	"digital_illustration/engraving_color",
	"digital_illustration/2d_art_poster_2",
	"realistic_image",
	"realistic_image/b_and_w",
	"realistic_image/hard_flash",
	"realistic_image/hdr",
	"realistic_image/natural_light",
	"realistic_image/studio_portrait",
	"realistic_image/enterprise",
	"realistic_image/motion_blur",
	"vector_illustration",
	"vector_illustration/engraving",
	"vector_illustration/line_art",
	"vector_illustration/line_circuit",
	"vector_illustration/linocut",
}

var ideogramAspectRatios = []string{
	"1:1", "16:9", "9:16", "4:3", "3:4", "3:2", "2:3", "16:10", "10:16", "3:1", "1:3",
}

var ideogramStyleTypes = []string{"Auto", "General", "Realistic", "Design", "Render 3D", "Anime"}

var ideogramFields = []Field{
	{
		Name:     "model",
		Kind:     KindSelect,
		Label:    "Model Version",
		Required: true,
		Options:  []string{"ideogram-v2", "ideogram-v2-turbo"},
		Default:  "ideogram-v2",
	},
	{
		Name:     "prompt",
		Kind:     KindTextArea,
		Label:    "Prompt",
		Required: true,
	},
	{
		Name:  "negative_prompt",
		Kind:  KindTextArea,
		Label: "Negative Prompt",
	},
	{
		Name:    "aspect_ratio",
		Kind:    KindSelect,
		Label:   "Aspect Ratio",
		Options: ideogramAspectRatios,
		Default: "1:1",
	},
	{
		Name:    "style_type",
		Kind:    KindSelect,
		Label:   "Style Type",
		Options: ideogramStyleTypes,
		Default: "Auto",
	},
	{
		Name:    "magic_prompt_option",
		Kind:    KindSelect,
		Label:   "Magic Prompt",
		Options: []string{"Auto", "On", "Off"},
		Default: "Auto",
	},
}

var families = []Family{
	{
		ID:          "flux",
		DisplayName: "Flux",
		Description: "High-quality image generation models from Flux family",
		Models: []Descriptor{
			{
				ID:          "flux",
				DisplayName: "Flux",
				Description: "Flux model family with multiple versions",
				Fields:      fluxFields,
			},
		},
	},
	{
		ID:          "recraft",
		DisplayName: "Recraft",
		Description: "Advanced AI image generation with multiple style options",
		Models: []Descriptor{
			{
				ID:          "recraft-v3",
				DisplayName: "Recraft V3",
				Description: "Latest version of Recraft AI",
				Fields: []Field{
					{
						Name:     "prompt",
						Kind:     KindTextArea,
						Label:    "Prompt",
						Required: true,
					},
					{
						Name:     "size",
						Kind:     KindSelect,
						Label:    "Size",
						Required: true,
						Options:  recraftSizes,
						Default:  "1024x1024",
					},
					{
						Name:    "style",
						Kind:    KindSelect,
						Label:   "Style",
						Options: recraftStyles,
					},
				},
			},
		},
	},
	{
		ID:          "ideogram",
		DisplayName: "Ideogram",
		Description: "Versatile image generation with advanced style control",
		Models: []Descriptor{
			{
				ID:          "ideogram",
				DisplayName: "Ideogram",
				Description: "Ideogram model family",
				Fields:      ideogramFields,
			},
		},
	},
	{
		ID:          "dalle",
		DisplayName: "DALL·E",
		Description: "OpenAI's advanced image generation models",
		Models: []Descriptor{
			{
				ID:          "dall-e-3",
				DisplayName: "DALL·E 3",
				Description: "Latest version of DALL·E",
				Fields: []Field{
					{
						Name:     "prompt",
						Kind:     KindTextArea,
						Label:    "Prompt",
						Required: true,
					},
					{
						Name:    "size",
						Kind:    KindSelect,
						Label:   "Size",
						Options: []string{"1024x1024", "1792x1024", "1024x1792"},
						Default: "1024x1024",
					},
					{
						Name:    "quality",
						Kind:    KindSelect,
						Label:   "Quality",
						Options: []string{"standard", "hd"},
						Default: "hd",
					},
					{
						// "none" is a UI-only sentinel: the request builder
						// drops the style key entirely because the API
						// rejects an explicit none.
						Name:    "style",
						Kind:    KindSelect,
						Label:   "Style",
						Options: []string{"none", "vivid", "natural"},
						Default: "natural",
					},
				},
			},
		},
	},
}
