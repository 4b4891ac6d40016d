// Package lua runs keyward plugins written in Lua.
//
// Each plugin gets its own sandboxed gopher-lua state with only the base,
// table, string and math libraries. The global keyward module lets a
// plugin contribute shortcut collections and query the registry:
//
//	local ok = keyward.collection("vim", {
//	    { name = "write", text = "&Write", keys = { "<C-w>", "Z Z" } },
//	    { name = "quit",  text = "Quit",   keys = { "Z Q" }, defaults = { "Z Q" } },
//	})
//
//	for _, ref in ipairs(keyward.conflicts("Ctrl+S")) do
//	    keyward.log("warn", "Ctrl+S already used by " .. ref)
//	end
//
// Collections created by a plugin live exactly as long as the plugin.
// Closing the plugin releases them and the registry drops them on its
// next traversal.
package lua
