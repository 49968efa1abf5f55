package shaders

// Shared fragment helpers: ACES filmic tone mapping and linear fog
const commonFragment = `
uniform float exposure;
uniform int fogEnabled;
uniform vec3 fogColor;
uniform float fogNear;
uniform float fogFar;

vec3 acesFilmic(vec3 color) {
    color *= exposure;
    return clamp((color * (2.51 * color + 0.03)) / (color * (2.43 * color + 0.59) + 0.14), 0.0, 1.0);
}

vec3 applyFog(vec3 color, float depth) {
    if (fogEnabled == 0 || fogFar <= fogNear) {
        return color;
    }
    float f = clamp((depth - fogNear) / (fogFar - fogNear), 0.0, 1.0);
    return mix(color, fogColor, f);
}
`

const pointVertex = `
#version 410 core

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 color;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
uniform float pointSize;
uniform float viewportHeight;

out vec3 vColor;
out float vDepth;

void main() {
    vec4 viewPos = view * model * vec4(position, 1.0);
    vColor = color;
    vDepth = -viewPos.z;
    gl_Position = projection * viewPos;
    // Size attenuation, world units to pixels
    gl_PointSize = max(pointSize * viewportHeight * 0.5 / max(vDepth, 0.0001), 1.0);
}
`

const pointFragment = `
#version 410 core

in vec3 vColor;
in float vDepth;
out vec4 outColor;
` + commonFragment + `
void main() {
    outColor = vec4(applyFog(acesFilmic(vColor), vDepth), 1.0);
}
`

// CreatePointProgram builds the program that draws the point field
func CreatePointProgram() (uint32, error) {
	return buildProgram("points", pointVertex, pointFragment)
}
