// Package gen holds the boilerplate templates and the placeholder code
// generator. Both are pure functions so a real AI backend can replace
// Generate without touching the command pipeline.
package gen

import "fmt"

const reactAppBoilerplate = `// React App Boilerplate
import React, { useState } from 'react';

function App() {
  const [count, setCount] = useState(0);

  return (
    <div className="app">
      <h1>My App</h1>
      <button onClick={() => setCount(count + 1)}>
        Count: {count}
      </button>
    </div>
  );
}

export default App;`

const htmlWebsiteBoilerplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>My Website</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; }
        .container { max-width: 800px; margin: 0 auto; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Welcome to My Website</h1>
        <p>This is a basic website template.</p>
    </div>
</body>
</html>`

// Boilerplate returns the initial code for a new project. Unknown
// (type, language) combinations fall back to a generic placeholder naming
// both.
func Boilerplate(projectType, language string) string {
	if projectType == "app" && language == "javascript" {
		return reactAppBoilerplate
	}

	if projectType == "website" && language == "html" {
		return htmlWebsiteBoilerplate
	}

	return fmt.Sprintf("// %s in %s\nconsole.log(\"Hello, world!\");", projectType, language)
}
