package sourceset

// KotlinTarget is one supported Kotlin compilation target.
type KotlinTarget string

const (
	TargetJvm                   KotlinTarget = "jvm"
	TargetAndroid                KotlinTarget = "android"
	TargetJs                     KotlinTarget = "js"
	TargetWasmJs                 KotlinTarget = "wasmJs"
	TargetWasmWasi               KotlinTarget = "wasmWasi"
	TargetIosArm64                KotlinTarget = "iosArm64"
	TargetIosSimulatorArm64       KotlinTarget = "iosSimulatorArm64"
	TargetIosX64                  KotlinTarget = "iosX64"
	TargetMacosArm64              KotlinTarget = "macosArm64"
	TargetMacosX64                KotlinTarget = "macosX64"
	TargetLinuxX64                KotlinTarget = "linuxX64"
	TargetLinuxArm64              KotlinTarget = "linuxArm64"
	TargetMingwX64                KotlinTarget = "mingwX64"
	TargetTvosArm64                KotlinTarget = "tvosArm64"
	TargetTvosSimulatorArm64       KotlinTarget = "tvosSimulatorArm64"
	TargetWatchosArm64             KotlinTarget = "watchosArm64"
	TargetWatchosSimulatorArm64    KotlinTarget = "watchosSimulatorArm64"
	TargetAndroidNativeArm64       KotlinTarget = "androidNativeArm64"
	TargetAndroidNativeX64         KotlinTarget = "androidNativeX64"
)

var kebabAliases = map[string]KotlinTarget{
	"jvm":                      TargetJvm,
	"android":                  TargetAndroid,
	"js":                       TargetJs,
	"wasm-js":                  TargetWasmJs,
	"wasmJs":                   TargetWasmJs,
	"wasm-wasi":                TargetWasmWasi,
	"wasmWasi":                 TargetWasmWasi,
	"ios-arm64":                TargetIosArm64,
	"iosArm64":                 TargetIosArm64,
	"ios-simulator-arm64":      TargetIosSimulatorArm64,
	"iosSimulatorArm64":        TargetIosSimulatorArm64,
	"ios-x64":                  TargetIosX64,
	"iosX64":                   TargetIosX64,
	"macos-arm64":              TargetMacosArm64,
	"macosArm64":               TargetMacosArm64,
	"macos-x64":                TargetMacosX64,
	"macosX64":                 TargetMacosX64,
	"linux-x64":                TargetLinuxX64,
	"linuxX64":                 TargetLinuxX64,
	"linux-arm64":              TargetLinuxArm64,
	"linuxArm64":               TargetLinuxArm64,
	"mingw-x64":                TargetMingwX64,
	"mingwX64":                 TargetMingwX64,
	"tvos-arm64":               TargetTvosArm64,
	"tvosArm64":                TargetTvosArm64,
	"tvos-simulator-arm64":     TargetTvosSimulatorArm64,
	"tvosSimulatorArm64":       TargetTvosSimulatorArm64,
	"watchos-arm64":            TargetWatchosArm64,
	"watchosArm64":             TargetWatchosArm64,
	"watchos-simulator-arm64":  TargetWatchosSimulatorArm64,
	"watchosSimulatorArm64":    TargetWatchosSimulatorArm64,
	"android-native-arm64":     TargetAndroidNativeArm64,
	"androidNativeArm64":       TargetAndroidNativeArm64,
	"android-native-x64":       TargetAndroidNativeX64,
	"androidNativeX64":         TargetAndroidNativeX64,
}

// ParseKotlinTarget parses a target name in either kebab-case or
// camelCase form.
func ParseKotlinTarget(s string) (KotlinTarget, bool) {
	t, ok := kebabAliases[s]
	return t, ok
}

// SourceSetName is the camelCase source-set prefix for this target
// (e.g. "jvm", "iosArm64"), used to build "<name>Main"/"<name>Test".
func (t KotlinTarget) SourceSetName() string { return string(t) }

// IsNative reports whether this target compiles to native code rather
// than JVM, JS, WASM, or Android bytecode.
func (t KotlinTarget) IsNative() bool {
	switch t {
	case TargetJvm, TargetAndroid, TargetJs, TargetWasmJs, TargetWasmWasi:
		return false
	default:
		return true
	}
}

// IsAndroid reports whether this is the Android JVM target.
func (t KotlinTarget) IsAndroid() bool { return t == TargetAndroid }

// IsApple reports whether this target is an Apple platform.
func (t KotlinTarget) IsApple() bool {
	switch t {
	case TargetIosArm64, TargetIosSimulatorArm64, TargetIosX64,
		TargetMacosArm64, TargetMacosX64,
		TargetTvosArm64, TargetTvosSimulatorArm64,
		TargetWatchosArm64, TargetWatchosSimulatorArm64:
		return true
	default:
		return false
	}
}

// CompilerName returns the Kotlin compiler binary name for this target.
func (t KotlinTarget) CompilerName() string {
	switch t {
	case TargetJvm, TargetAndroid:
		return "kotlinc"
	case TargetJs:
		return "kotlinc-js"
	case TargetWasmJs, TargetWasmWasi:
		return "kotlinc"
	default:
		return "kotlinc-native"
	}
}
