package renderer

const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(transpose(inverse(uModel))) * aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uProjection * uView * world;
}
`

// Ambient plus one Lambert directional term.
const fragmentShaderSource = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vTexCoord;

uniform sampler2D uTexture;
uniform vec4 uBaseColor;
uniform vec3 uAmbient;
uniform vec3 uLightColor;
uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
    vec4 base = texture(uTexture, vTexCoord) * uBaseColor;
    if (base.a < 0.01) {
        discard;
    }

    vec3 n = normalize(vNormal);
    if (!gl_FrontFacing) {
        n = -n;
    }
    float diffuse = max(dot(n, normalize(uLightDir)), 0.0);

    vec3 color = base.rgb * (uAmbient + uLightColor * diffuse);
    FragColor = vec4(color, base.a);
}
`
