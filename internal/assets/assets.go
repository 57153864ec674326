package assets

var defaultLoader = NewEmbeddedLoader()

// LoadDirectory loads a jurisdiction table by name using the embedded loader.
func LoadDirectory(name string) ([]byte, error) {
	return defaultLoader.LoadDirectory(name)
}

// LoadTemplate loads an HTML template by name using the embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadGuide loads a Markdown guide by name using the embedded loader.
func LoadGuide(name string) (string, error) {
	return defaultLoader.LoadGuide(name)
}
