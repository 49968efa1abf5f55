package shaders

const invaderVertex = `
#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;
layout(location = 2) in vec3 center;

uniform mat4 view;
uniform mat4 projection;
uniform float cubeSize;

out vec3 vNormal;
out float vDepth;

void main() {
    vec4 viewPos = view * vec4(center + position * cubeSize, 1.0);
    vNormal = normal;
    vDepth = -viewPos.z;
    gl_Position = projection * viewPos;
}
`

const invaderFragment = `
#version 410 core

in vec3 vNormal;
in float vDepth;
out vec4 outColor;

uniform vec3 baseColor;
uniform vec3 ambient;
uniform vec3 directional;
uniform vec3 directionalDir;
uniform vec3 skyColor;
uniform vec3 groundColor;
uniform vec3 hemisphereDir;
` + commonFragment + `
void main() {
    vec3 n = normalize(vNormal);
    float hemi = 0.5 * dot(n, hemisphereDir) + 0.5;
    vec3 light = ambient
        + directional * max(dot(n, directionalDir), 0.0)
        + mix(groundColor, skyColor, hemi);
    outColor = vec4(applyFog(acesFilmic(baseColor * light), vDepth), 1.0);
}
`

// CreateInvaderProgram builds the program that draws the instanced invader
// cubes with Lambert lighting
func CreateInvaderProgram() (uint32, error) {
	return buildProgram("invader", invaderVertex, invaderFragment)
}
