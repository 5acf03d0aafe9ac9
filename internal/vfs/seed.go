package vfs

// AutumnLeavesURL is where the seeded mp3 pointer file sends the player.
const AutumnLeavesURL = "https://media.hanna-terminal.net/audio/autumn-leaves-in-tokyo.mp3"

func dir(name string, children ...*Node) *Node {
	d := NewDir(name)
	for _, c := range children {
		d.put(c)
	}
	return d
}

// NewSeeded returns an FS populated with the default machine layout.
func NewSeeded(opts ...Option) *FS {
	fs := New(opts...)
	fs.root.Children = seedTree().Children
	return fs
}

func seedTree() *Node {
	return dir("/",
		dir("home",
			dir("skairipa",
				NewFile(".bashrc", "# Hanna's bash configuration\n"+
					"alias ls=\"ls --color=auto\"\n"+
					"export PS1=\"\\u@\\h:\\w$ \"\n"+
					"echo \"Welcome, Hanna!\"\n"),
				NewFile("welcome.txt", "Welcome to Hanna Skairipa's Terminal System!\n\n"+
					"You've successfully completed the Shadow Assets CTF.\n"+
					"This terminal is a fully functional in-memory shell environment.\n\n"+
					"Try these commands:\n"+
					"  • ls - List files\n"+
					"  • cat <file> - Read files\n"+
					"  • cd <dir> - Change directory\n"+
					"  • pwd - Print working directory\n"+
					"  • help - Show available commands\n\n"+
					"Enjoy exploring! 🏴‍☠️\n"),
				dir("Desktop"),
				dir("Documents",
					NewFile("README.md", "# Hanna's Documents\n\n"+
						"This directory contains various documentation and notes.\n\n"+
						"Feel free to explore!\n"),
				),
				dir("Downloads"),
				dir("Projects",
					NewFile("shadow-assets.txt", "Shadow Assets CTF Project\n\n"+
						"This was my deliberately vulnerable system for security training.\n"+
						"The fragments, encryption, and steganography were all intentional.\n\n"+
						"If you're reading this, you solved it. Nice work!\n\n"+
						"- H.S.\n"),
					NewFile("Autumn Leaves in Tokyo.mp3", AutumnLeavesURL),
				),
				dir(".secrets",
					NewFile("flag.txt", "🏴‍☠️ CONGRATULATIONS! 🏴‍☠️\n\n"+
						"You completed the Shadow Assets CTF!\n\n"+
						"Flag: HANNA{Sh4d0w_4ss3ts_M4st3r_H4ck3r_2024}\n\n"+
						"You've demonstrated:\n"+
						"  ✓ Steganography (audio spectrograms, LSB images)\n"+
						"  ✓ Cryptography (AES-256, RSA, XOR)\n"+
						"  ✓ Code analysis (algorithm reconstruction)\n"+
						"  ✓ Web exploitation (XSS)\n"+
						"  ✓ Persistence and problem-solving\n\n"+
						"Well done, hacker. You earned this.\n\n"+
						"- Hanna Skairipa 💀\n"),
				),
			),
		),
		dir("root",
			NewFile(".bashrc", "# Root bash configuration\n"+
				"export PS1=\"\\[\\033[01;31m\\]\\u@\\h\\[\\033[00m\\]:\\[\\033[01;34m\\]\\w\\[\\033[00m\\]# \"\n"+
				"alias rm=\"rm -i\"\n"+
				"alias cp=\"cp -i\"\n"+
				"alias mv=\"mv -i\"\n"),
			NewFile("admin-notes.txt", "ADMIN NOTES - CONFIDENTIAL\n\n"+
				"System: Hanna's Terminal v1.0\n"+
				"Status: Production\n\n"+
				"Security measures:\n"+
				"  • CTF authentication required\n"+
				"  • Multi-user login system\n"+
				"  • Virtual filesystem\n\n"+
				"Backlog:\n"+
				"  [ ] Rotate root password\n"+
				"  [ ] Add more users\n"+
				"  [ ] Implement sudo command\n"+
				"  [ ] Add file upload/download\n\n"+
				"- Root Admin\n"),
		),
		dir("etc",
			NewFile("passwd", "root:x:0:0:root:/root:/bin/bash\n"+
				"skairipa:x:1000:1000:Hanna Skairipa:/home/skairipa:/bin/bash\n"),
			NewFile("hostname", "hanna-terminal\n"),
			NewFile("motd", "╔═══════════════════════════════════════════════╗\n"+
				"║   HANNA SKAIRIPA'S TERMINAL SYSTEM v1.0       ║\n"+
				"║   Unauthorized access prohibited              ║\n"+
				"╚═══════════════════════════════════════════════╝\n"),
		),
		dir("bin"),
		dir("tmp"),
		dir("var"),
		dir("usr", dir("bin")),
	)
}
