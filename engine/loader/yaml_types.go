package loader

// yamlAsset is the document root of a .yaml asset file.
type yamlAsset struct {
	Name       string         `yaml:"name"`
	AABB       *yamlAABB      `yaml:"aabb"`
	Skeleton   []yamlBone     `yaml:"skeleton"`
	Meshes     []yamlMesh     `yaml:"meshes"`
	Materials  []yamlMaterial `yaml:"materials"`
	Animations []yamlClip     `yaml:"animations"`
}

type yamlAABB struct {
	Min []float32 `yaml:"min"`
	Max []float32 `yaml:"max"`
}

// yamlBone describes one bone. Parent is a bone name; empty marks a root.
// Rotation is a quaternion in x, y, z, w order.
type yamlBone struct {
	Name        string    `yaml:"name"`
	Parent      string    `yaml:"parent"`
	Translation []float32 `yaml:"translation"`
	Rotation    []float32 `yaml:"rotation"`
	Scale       []float32 `yaml:"scale"`

	// InverseBind is an optional column-major 4x4 matrix. It is derived from the bind pose when absent.
	InverseBind []float32 `yaml:"inverse_bind"`
}

type yamlSphere struct {
	Center []float32 `yaml:"center"`
	Radius float32   `yaml:"radius"`
}

type yamlMesh struct {
	Name           string      `yaml:"name"`
	Material       string      `yaml:"material"`
	BoundingSphere *yamlSphere `yaml:"bounding_sphere"`
}

type yamlMaterial struct {
	Name      string    `yaml:"name"`
	Group     uint64    `yaml:"group"`
	BaseColor []float32 `yaml:"base_color"`
	Metallic  float32   `yaml:"metallic"`
	Roughness *float32  `yaml:"roughness"`
}

// yamlClip is one animation. A zero duration is derived from the last keyframe.
type yamlClip struct {
	Name     string        `yaml:"name"`
	Duration float32       `yaml:"duration"`
	Channels []yamlChannel `yaml:"channels"`
}

type yamlChannel struct {
	Bone     string    `yaml:"bone"`
	Position []yamlKey `yaml:"position"`
	Rotation []yamlKey `yaml:"rotation"`
	Scale    []yamlKey `yaml:"scale"`
}

type yamlKey struct {
	Time  float32   `yaml:"time"`
	Value []float32 `yaml:"value"`
}
