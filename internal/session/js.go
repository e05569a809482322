package session

import "fmt"

// disconnectPresentJS reports whether the connect toggle currently reads
// "Disconnect", which is the portal's signal that a jurisdiction is connected.
const disconnectPresentJS = `Array.from(document.querySelectorAll("button[type='button']"))
	.some(b => b.textContent.trim() === 'Disconnect')`

// clickDisconnectJS clicks the disconnect toggle if present, returning
// whether a click happened.
const clickDisconnectJS = `(() => {
	const btn = Array.from(document.querySelectorAll("button[type='button']"))
		.find(b => b.textContent.trim() === 'Disconnect');
	if (!btn) return false;
	btn.click();
	return true;
})()`

// clickSignOutJS clicks the last nav button when it is the sign-out control.
const clickSignOutJS = `(() => {
	const buttons = Array.from(document.querySelectorAll("button[class*='nav-button']"));
	if (buttons.length === 0) return false;
	const last = buttons[buttons.length - 1];
	if (!last.textContent.includes('Sign out')) return false;
	last.click();
	return true;
})()`

// clickByIndexJS re-resolves the jurisdiction control list and clicks the
// control at index, returning whether the index was in range.
func clickByIndexJS(index int) string {
	return fmt.Sprintf(`(() => {
	const els = document.querySelectorAll('div[class*="button-wrapper"]');
	if (%d >= els.length) return false;
	const el = els[%d];
	el.scrollIntoView({block: 'center'});
	el.click();
	return true;
})()`, index, index)
}
